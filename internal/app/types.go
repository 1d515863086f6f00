package app

// runStage tracks where the single in-flight run currently is. Stages
// advance strictly in order; stageFailed is terminal and reachable from
// any of them.
type runStage int

const (
	stageIdle runStage = iota
	stageLoading
	stageScoring
	stageSelecting
	stageSynthesizing
	stageImageGenerating
	stageDone
	stageFailed
)

var stageLabels = map[runStage]string{
	stageIdle:            "準備完了",
	stageLoading:         "特許データを読み込んでいます...",
	stageScoring:         "関連度を評価しています...",
	stageSelecting:       "関連度上位を抽出しています...",
	stageSynthesizing:    "ソリューションを生成しています...",
	stageImageGenerating: "製品イメージを生成しています...",
	stageDone:            "完了",
	stageFailed:          "エラーが発生しました",
}

func (s runStage) label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return ""
}
