package calcjob

import (
	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/dos"
)

// Chain is the two-step density-of-states workflow: an OpenMX run that
// writes eigenvalue files, followed by a DosMain run over them.
type Chain struct {
	Main    OpenMXJob
	Request dos.Request
}

// Validate checks that the two steps are consistent with each other before
// anything is submitted.
func (c *Chain) Validate() error {
	var iss openmx.Issues
	if !c.Main.Options.DOSOutput {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "dos.fileout",
			Code:    openmx.CodeRequiresUnmet,
			Message: "the main run must enable DOSOutput for DosMain to have eigenvalue files",
		})
	}
	if more := errIssues(c.Request.Validate()); len(more) > 0 {
		iss = append(iss, more...)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// DosJob builds the second step from the first step's configuration and
// its completed job directory, carrying the upstream structure and orbital
// configurations into projected-DOS requests.
func (c *Chain) DosJob(code CodeInfo, remoteDir string) *DosMainJob {
	req := c.Request
	if req.Spectrum == dos.ProjectedDOS {
		req.Structure = c.Main.Inputs.Structure
		req.OrbitalConfigs = c.Main.Inputs.OrbitalConfigs
	}
	return &DosMainJob{
		Code:       code,
		Request:    req,
		SystemName: c.Main.Options.SystemName,
		RemoteDir:  remoteDir,
		Logger:     c.Main.Logger,
	}
}

func errIssues(err error) openmx.Issues {
	iss, _ := openmx.AsIssues(err)
	return iss
}
