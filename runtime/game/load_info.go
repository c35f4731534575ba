package game

// LoadInfo 负载信息
// 用于 Monitor 定期输出 selfplay 节点的吞吐与资源占用
type LoadInfo struct {
	ActiveMatches   int     // 进行中的对局数
	FinishedMatches int     // 已结束的对局数
	HandsPerSecond  float64 // 最近一个周期每秒完成的局数
	CPUUsage        float64 // CPU 使用率（0-100）
	MemUsage        float64 // 内存使用率（0-100）
	CacheHitRatio   float64 // 计算器缓存命中率（0-1）
}

// CalculateLoad 计算综合负载评分
// 权重：CPU 50%、内存 30%、对局数 20%
// 返回值越小表示负载越低
func (li *LoadInfo) CalculateLoad() float64 {
	normalizedMatches := float64(li.ActiveMatches) / 100.0
	if normalizedMatches > 1.0 {
		normalizedMatches = 1.0
	}
	return li.CPUUsage*0.5 + li.MemUsage*0.3 + normalizedMatches*100*0.2
}
