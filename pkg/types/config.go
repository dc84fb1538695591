package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "thesis-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig locates the relational store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "theses.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// HarvestConfig holds settings for OAI-PMH harvesting and metadata ingest.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// OAIEndpoint is the base URI of the OAI-PMH repository.
	OAIEndpoint string `json:"oai_endpoint" yaml:"oai_endpoint"`

	// OAIIdentifierPrefix is prepended to an item identifier to form the
	// full OAI identifier passed to GetRecord.
	OAIIdentifierPrefix string `json:"oai_identifier_prefix" yaml:"oai_identifier_prefix"`

	// SetListPath is the YAML resource mapping thesis set specs to
	// collection names. Items outside the listed sets are not theses.
	SetListPath string `json:"set_list_path" yaml:"set_list_path"`

	// From and Until optionally bound the harvest by datestamp.
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
	Until string `json:"until,omitempty" yaml:"until,omitempty"`
}

// RefsConfig holds settings for reference extraction and classification.
type RefsConfig struct {
	// CorpusDir is the directory of extracted thesis text files, one
	// "<handle>.txt" per document.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// CheckpointPath is where raw extraction results are serialized before
	// classification runs. Extraction at full scale takes days; a crash in
	// a later stage must not force a re-run.
	CheckpointPath string `json:"checkpoint_path" yaml:"checkpoint_path"`

	// MaxFiles bounds how many corpus files are processed (0 = all).
	MaxFiles int `json:"max_files" yaml:"max_files"`

	// Workers is the extraction pool size (default: one per CPU).
	Workers int `json:"workers" yaml:"workers"`

	// TailLines is how many lines of each file's tail are scanned for
	// references (default 1000).
	TailLines int `json:"tail_lines" yaml:"tail_lines"`
}

// CorpusConfig holds settings for building the training corpus.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline"`

	// CorpusDir is the main directory of extracted text files.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// TrainingDir and TestDir receive the training/test split.
	TrainingDir string `json:"training_dir" yaml:"training_dir"`
	TestDir     string `json:"test_dir" yaml:"test_dir"`
}

// EvalConfig holds settings for the model evaluator.
type EvalConfig struct {
	// ModelsDir is where trained model files live.
	ModelsDir string `json:"models_dir" yaml:"models_dir"`

	// CorpusDir is the main text directory, read when a thesis is missing
	// from a model's training set and its vector must be inferred.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// MaxTuples caps the (A, B, C) evaluation tuples (default 50).
	MaxTuples int `json:"max_tuples" yaml:"max_tuples"`
}
