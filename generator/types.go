package generator

import "encoding/json"

// PatentRow holds a single abstract together with the model's verbatim
// relevance reply and the numeric score parsed out of it.
type PatentRow struct {
	Abstract     string  `json:"abstract"`
	RelevanceRaw string  `json:"relevanceRaw,omitempty"`
	Relevance    float64 `json:"relevance"`
}

// PatentTable is an ordered collection of rows in spreadsheet order.
type PatentTable struct {
	Rows []PatentRow `json:"rows"`
	// AbstractColumn records which header the abstracts were read from.
	AbstractColumn string `json:"abstractColumn,omitempty"`
}

// Len returns the number of rows, including rows with an empty abstract.
func (t *PatentTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// EligibleCount returns how many rows carry a non-empty abstract and will
// therefore be sent to the scoring model.
func (t *PatentTable) EligibleCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, row := range t.Rows {
		if row.Abstract != "" {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so a scoring pass can publish a new table
// without touching the loaded one.
func (t *PatentTable) Clone() *PatentTable {
	if t == nil {
		return nil
	}
	out := &PatentTable{
		Rows:           make([]PatentRow, len(t.Rows)),
		AbstractColumn: t.AbstractColumn,
	}
	copy(out.Rows, t.Rows)
	return out
}

// RunConfig carries everything a single generation run needs. It is read
// once when the run starts and never mutated afterwards.
type RunConfig struct {
	APIKey         string `json:"-"`
	TopN           int    `json:"topN"`
	MaxRetries     int    `json:"maxRetries"`
	BackoffSeconds int    `json:"backoffSeconds"`
	Query          string `json:"query"`
	ProductType    string `json:"productType"`
}

// SolutionResult is the free-text narrative returned by the synthesis
// model. The four facets (name, concept, user experience, technical
// detail) live inside the prose; nothing parses them.
type SolutionResult struct {
	Narrative string `json:"narrative"`
}

// Config aggregates runtime settings persisted to config.json. The API key
// is deliberately absent: it stays in memory for the duration of one run.
type Config struct {
	TopN           int    `json:"topN"`
	MaxRetries     int    `json:"maxRetries"`
	BackoffSeconds int    `json:"backoffSeconds"`
	Query          string `json:"query"`
	ProductType    string `json:"productType"`
	AbstractColumn string `json:"abstractColumn"`
	ScoringModel   string `json:"scoringModel"`
	SynthesisModel string `json:"synthesisModel"`
	ImageModel     string `json:"imageModel"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values and clamps the tuning knobs into the
// ranges the UI sliders expose.
func (c *Config) ApplyDefaults() {
	if c.TopN == 0 {
		c.TopN = 20
	}
	c.TopN = clampInt(c.TopN, 5, 50)
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	c.MaxRetries = clampInt(c.MaxRetries, 1, 10)
	if c.BackoffSeconds == 0 {
		c.BackoffSeconds = 2
	}
	c.BackoffSeconds = clampInt(c.BackoffSeconds, 1, 10)
	if c.Query == "" {
		c.Query = "環境に優しい包装材が欲しい"
	}
	if c.ProductType == "" {
		c.ProductType = "飲料"
	}
	if c.AbstractColumn == "" {
		c.AbstractColumn = DefaultAbstractColumn
	}
	if c.ScoringModel == "" {
		c.ScoringModel = ScoringModel
	}
	if c.SynthesisModel == "" {
		c.SynthesisModel = SynthesisModel
	}
	if c.ImageModel == "" {
		c.ImageModel = ImageGenModel
	}
}

// RunConfig builds the immutable per-run settings from the persisted
// configuration plus the secret supplied for this run.
func (c Config) RunConfig(apiKey string) RunConfig {
	return RunConfig{
		APIKey:         apiKey,
		TopN:           c.TopN,
		MaxRetries:     c.MaxRetries,
		BackoffSeconds: c.BackoffSeconds,
		Query:          c.Query,
		ProductType:    c.ProductType,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
