package health

// ModelInfo describes the loaded classification artifact.
type ModelInfo struct {
	Version  int `json:"version"`
	Features int `json:"features"`
	Classes  int `json:"classes"`
}

// LexiconInfo counts the loaded reference tables.
type LexiconInfo struct {
	Categories int `json:"categories"`
	Domains    int `json:"domains"`
	Skills     int `json:"skills"`
}

// Status is the health payload.
type Status struct {
	OK      bool        `json:"ok"`
	Env     string      `json:"env"`
	Model   ModelInfo   `json:"model"`
	Lexicon LexiconInfo `json:"lexicon"`
}

// Service encapsulates health-related checks.
type Service struct {
	env     string
	model   ModelInfo
	lexicon LexiconInfo
}

// NewService constructs a new health service. Models are loaded before the
// server starts, so a constructed service always reports ok.
func NewService(env string, model ModelInfo, lexicon LexiconInfo) *Service {
	return &Service{env: env, model: model, lexicon: lexicon}
}

// Status returns the health payload.
func (s *Service) Status() Status {
	return Status{OK: true, Env: s.env, Model: s.model, Lexicon: s.lexicon}
}
