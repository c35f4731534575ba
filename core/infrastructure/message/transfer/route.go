package transfer

import "fmt"

// 每场对局一个主题，训练端用 selfplay.trajectory.> 订阅全部
const TrajectorySubjectPrefix = "selfplay.trajectory"

// 对局结束摘要
const MatchSummarySubject = "selfplay.summary"

func TrajectorySubject(matchID string) string {
	return fmt.Sprintf("%s.%s", TrajectorySubjectPrefix, matchID)
}
