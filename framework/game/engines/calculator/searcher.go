package calculator

// Cache 可选的结果缓存，按条目计数，core/infrastructure/cache.CalculatorCache 满足该接口
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}) bool
}

// Searcher 向听/和牌/听牌搜索，本身无状态；cache 为 nil 时不做缓存
type Searcher struct {
	cache Cache
}

func NewSearcher(cache Cache) *Searcher {
	return &Searcher{cache: cache}
}

// load 按类型取缓存，类型不符当作未命中
func load[V any](s *Searcher, key string) (V, bool) {
	var zero V
	if s == nil || s.cache == nil {
		return zero, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

func (s *Searcher) store(key string, v interface{}) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Set(key, v)
}

// CalculateShanten 向听数：-1 和牌，0 听牌
func (s *Searcher) CalculateShanten(h Hand34, melds []Meld) int {
	return s.ShantenAll(h, len(melds))
}

// Waits 13 张（去掉副露部分）听哪些牌，已持有 4 张的牌种不算
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []TileType {
	key := "wt:" + h13.keyWithFixedMelds(fixedMelds)
	if waits, ok := load[[]TileType](s, key); ok {
		return append([]TileType(nil), waits...)
	}

	var waits []TileType
	for t := 0; t < 34; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, TileType(t))
		}
	}

	s.store(key, append([]TileType(nil), waits...))
	return waits
}

// IsAgariAll 是否和牌
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := "ag:" + h.keyWithFixedMelds(fixedMelds)
	if b, ok := load[bool](s, key); ok {
		return b
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariChiitoi(h) || IsAgariKokushi(h)
	}

	s.store(key, ok)
	return ok
}

// IsAgariNormal 普通牌型是否和牌，核心思想，找雀头、组面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds // 需要组成的面子数
	if need < 0 || h.Count() != 3*need+2 {
		return false
	}

	for j := 0; j < 34; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子是否和牌，四张同种不算两对
func IsAgariChiitoi(h Hand34) bool {
	pairs := 0
	for i := 0; i < 34; i++ {
		switch h[i] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// IsAgariKokushi 国士无双是否和牌
func IsAgariKokushi(h Hand34) bool {
	if h.Count() != 14 {
		return false
	}
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	return unique == 13 && pair
}

func canFormMelds(h *Hand34, need int) bool {
	if need == 0 {
		for i := 0; i < 34; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	// 找第一个非 0
	i := -1
	for k := 0; k < 34; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		ok := canFormMelds(h, need-1)
		(*h)[i] += 3
		if ok {
			return true
		}
	}
	// 顺子（仅数牌）
	if seqStart(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		ok := canFormMelds(h, need-1)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return true
		}
	}

	return false
}

// seqStart i 能否作为顺子的第一张
func seqStart(i int) bool {
	t := TileType(i)
	return t.IsNumber() && t.Num() <= 7
}

// ShantenAll 向听数，带副露
func (s *Searcher) ShantenAll(h Hand34, fixedMelds int) int {
	key := "sh:" + h.keyWithFixedMelds(fixedMelds)
	if n, ok := load[int](s, key); ok {
		return n
	}

	best := ShantenNormal(h, fixedMelds)
	if fixedMelds == 0 {
		if v := ShantenChiitoi(h); v < best {
			best = v
		}
		if v := ShantenKokushi(h); v < best {
			best = v
		}
	}

	s.store(key, best)
	return best
}

// ShantenKokushi 国士无双向听数
func ShantenKokushi(h Hand34) int {
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	sh := 13 - unique
	if pair {
		sh--
	}
	return sh
}

// ShantenChiitoi 七对子向听数
func ShantenChiitoi(h Hand34) int {
	pairs := 0
	unique := 0
	for i := 0; i < 34; i++ {
		if h[i] > 0 {
			unique++
		}
		if h[i] >= 2 {
			pairs++
		}
	}
	sh := 6 - pairs
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

func ShantenNormal(h Hand34, fixedMelds int) int {
	best := 8 // 一般型最差上界
	work := h
	dfsNormalShanten(&work, fixedMelds, 0, 0, &best)
	return best
}

// dfsNormalShanten 普通牌型向听数搜索 m：当前已经形成的面子数(包含 fixedMelds)、p：雀头数（0/1）、t：搭子数（taatsu）、best：全局最小向听
func dfsNormalShanten(h *Hand34, m int, p int, t int, best *int) {
	if m > 4 {
		return
	}

	t2 := t
	if limit := 4 - m; t2 > limit {
		t2 = limit
	}

	sh := 8 - 2*m - t2 - p
	if sh < *best {
		*best = sh
	}
	if *best == -1 {
		return
	}

	i := -1
	for k := 0; k < 34; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i] += 3
	}

	if seqStart(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}

	if p == 0 && (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, 1, t, best)
		(*h)[i] += 2
	}

	// 对子也可以作为搭子（双碰）
	if p == 1 && (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i] += 2
	}

	ti := TileType(i)
	if ti.IsNumber() && ti.Num() <= 8 && (*h)[i+1] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i]++
		(*h)[i+1]++
	}

	if ti.IsNumber() && ti.Num() <= 7 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+2]--
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i]++
		(*h)[i+2]++
	}

	(*h)[i]--
	dfsNormalShanten(h, m, p, t, best)
	(*h)[i]++
}

