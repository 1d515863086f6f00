package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "日本語", TruncateRunes("日本語のテキスト", 3))
	assert.Equal(t, "", TruncateRunes("", 5))
}

func TestRelevancePromptAsksForBareNumber(t *testing.T) {
	p := RelevancePrompt("生分解性フィルム", "環境に優しい包装材")
	assert.Contains(t, p, "生分解性フィルム")
	assert.Contains(t, p, "環境に優しい包装材")
	assert.Contains(t, p, "数字だけ")
}

func TestSolutionPromptNamesFourFacets(t *testing.T) {
	p := SolutionPrompt("要約A 要約B", "環境に優しい包装材", "飲料")
	assert.Contains(t, p, "要約A 要約B")
	assert.Contains(t, p, "飲料")
	assert.Contains(t, p, "製品名")
	assert.Contains(t, p, "製品コンセプト")
	assert.Contains(t, p, "ユーザー体験")
	assert.Contains(t, p, "製品ソリューション詳細")
}

func TestImagePromptTruncatesLongNarrative(t *testing.T) {
	long := strings.Repeat("あ", narrativePromptLimit+500)
	p := ImagePrompt(long, "飲料")
	assert.Less(t, len([]rune(p)), narrativePromptLimit+500)
	assert.Contains(t, p, "飲料")
}
