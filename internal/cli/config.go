package cli

import (
	"github.com/toyz/dendrite/internal/utils"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files
	Directories []string

	// ModuleName is the custom module name for imports
	// If empty, will be determined from go.mod file
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Check reports what would be generated without writing any files
	Check bool
}

// Validate checks that the configuration is usable before a run starts
func (c Config) Validate() error {
	chain := utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("directories"),
		utils.ValidateEach("directories", utils.NotEmpty("directory")),
	)

	return chain.Validate(c.Directories)
}
