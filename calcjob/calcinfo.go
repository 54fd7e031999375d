package calcjob

import "github.com/openmx-go/openmx/input"

// CodeInfo describes the installed executable a job runs.
type CodeInfo struct {
	// Executable is the absolute path or resolvable name of the binary.
	Executable string
	// PrependParams go on the command line before job-specific arguments
	// (MPI launcher flags belong to the scheduler, not here).
	PrependParams []string
}

// Symlink is a link created in the job directory pointing at a file from an
// earlier run on the same machine, so large intermediates are not re-copied.
type Symlink struct {
	Source string
	Target string
}

// CalcInfo is everything the scheduler integration needs to submit one job.
type CalcInfo struct {
	Code          CodeInfo
	CmdlineParams []string
	StdinName     string
	StdoutName    string
	LocalCopies   []input.Staging
	RemoteLinks   []Symlink
	RetrieveList  []string
}
