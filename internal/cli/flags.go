package cli

import (
	"github.com/ironsheep/map-translate/internal/ocr"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile string
	Debug   bool
	Clean   bool

	// process flags
	OutputDir     string
	Languages     []string
	Level         string
	MinConfidence float64
	Jobs          int
	DebugImage    bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Languages:  append([]string(nil), ocr.DefaultLanguages...),
		Level:      string(ocr.LevelLine),
		Jobs:       1,
		DebugImage: true,
	}
}

// BuildInfo is reported by --version. main fills it from ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}
