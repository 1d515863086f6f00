package generator

import "fmt"

// Fixed model assignments. The scoring model is the cheap high-quota one;
// synthesis gets the stronger text model; image generation needs the
// preview model that can answer with inline image parts.
const (
	ScoringModel   = "gemini-2.0-flash-lite"
	SynthesisModel = "gemini-2.5-flash"
	ImageGenModel  = "gemini-2.0-flash-preview-image-generation"
)

// narrativePromptLimit bounds how much of the solution narrative is pasted
// into the image prompt.
const narrativePromptLimit = 10000

// RelevancePrompt asks for a bare percentage judging how related an
// abstract is to the user's need statement.
func RelevancePrompt(abstract, query string) string {
	return fmt.Sprintf(`次の文章の内容と、「%s」という文章との関連性を人間の感覚で判断し、パーセンテージで示してください。
出力はパーセンテージの数値のみでお願いします。例えば「75%%」ではなく「75」のように数字だけを出力してください。

文章:
%s`, query, abstract)
}

// SolutionPrompt asks for a product solution in four named facets, built
// from the combined top-N abstracts.
func SolutionPrompt(combined, query, productType string) string {
	return fmt.Sprintf(`次の文章は、「%s」という要求に関連する技術の文章群です。
これら文章群の内容を組合わせて、%sというニーズに対応する%sの新規なソリューション案を考えてください。
以下の4つの観点から説明してください：
1. 製品名：製品のキャッチーな名称
2. 製品コンセプト：3-4行程度の製品の全体像の説明
3. ユーザー体験：一般ユーザーに訴求する物語風の文章
4. 製品ソリューション詳細：技術者に訴求する具体的な成分や仕組みを示す技術的に詳細な文章

文章群:
%s`, query, query, productType, combined)
}

// ImagePrompt turns the narrative into a product-photo instruction. The
// narrative is truncated to keep the prompt inside the model's budget.
func ImagePrompt(narrative, productType string) string {
	return fmt.Sprintf(`以下は%sに関するソリューション案の文章です。
・この文章からソリューションの特徴（外観、材質、形状、機能など）を理解し、その特徴を反映したリアルな製品の写真を生成してください。
・必ず製品が明確に見える構図で、特徴が分かる美しい写真にしてください。
・ソリューション案に記載されている「ユーザー体験」や物語のシーンの中でのソリューションを視覚化してください。
・登場する人物の表情は幸せそうで、楽しんでいる雰囲気を出した写真としてください。

ソリューション案:
%s`, productType, TruncateRunes(narrative, narrativePromptLimit))
}

// TruncateRunes cuts s to at most n runes. Counting runes rather than
// bytes keeps Japanese narratives from being sliced mid-character.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
