// Package prerequisites checks that the binaries a deploy or reset shells
// out to are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// Package names the distribution package that usually ships the tool.
	Package string
}

// LookPathFunc resolves a binary name to its path.
type LookPathFunc func(name string) (string, error)

// KubectlTools returns the tools needed by the kubectl executor.
func KubectlTools() []Tool {
	return []Tool{
		{
			Name:        "kubectl",
			Required:    true,
			Description: "Applies and deletes the Rook manifests",
			Package:     "kubectl",
		},
	}
}

// WipeTools returns the tools a local reset runs on the storage host.
// blkdiscard is optional because not every device supports discard.
func WipeTools() []Tool {
	return []Tool{
		{Name: "bash", Required: true, Description: "Runs the cleanup commands", Package: "bash"},
		{Name: "dmsetup", Required: true, Description: "Removes ceph device-mapper targets", Package: "dmsetup"},
		{Name: "wipefs", Required: true, Description: "Erases filesystem signatures", Package: "util-linux"},
		{Name: "sgdisk", Required: true, Description: "Zaps GPT and MBR structures", Package: "gdisk"},
		{Name: "dd", Required: true, Description: "Zeroes the start of each volume", Package: "coreutils"},
		{Name: "partprobe", Required: true, Description: "Rereads partition tables", Package: "parted"},
		{Name: "lsblk", Required: true, Description: "Discovers LVM physical volumes", Package: "util-linux"},
		{Name: "blkdiscard", Required: false, Description: "Discards device blocks", Package: "util-linux"},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (package %s)", tool.Name, tool.Package))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// OptionalMissing names the missing tools that are not required.
func (r *CheckResults) OptionalMissing() []string {
	var names []string
	for _, tool := range r.Missing {
		if !tool.Required {
			names = append(names, tool.Name)
		}
	}
	return names
}

// Check verifies that the specified tools are available in PATH.
func Check(tools []Tool) *CheckResults {
	return CheckWith(exec.LookPath, tools)
}

// CheckWith is Check with a custom path lookup.
func CheckWith(lookPath LookPathFunc, tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}
