package calcjob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/dos"
)

// Control file fed to DosMain on stdin.
const DosControlFilename = "dosmain.in"

// DosMainJob prepares one DosMain post-processing run. It symlinks the
// eigenvalue files of an earlier OpenMX run (which must have been composed
// with DOSOutput set) into the job directory instead of copying them.
type DosMainJob struct {
	Code    CodeInfo
	Request dos.Request
	// SystemName must match the upstream run's System.Name; DosMain derives
	// its file names from it.
	SystemName string
	// RemoteDir is the upstream run's directory on the same machine.
	RemoteDir string
	Logger    *zap.Logger
}

func (j *DosMainJob) logger() *zap.Logger {
	if j.Logger == nil {
		return zap.NewNop()
	}
	return j.Logger
}

// Prepare writes the control file into dir and returns the submission
// description.
func (j *DosMainJob) Prepare(dir string) (*CalcInfo, error) {
	systemName := j.SystemName
	if systemName == "" {
		systemName = "openmx"
	}

	ctl, err := j.Request.ControlFile()
	if err != nil {
		return nil, err
	}
	retrieve, err := j.Request.RetrieveList(systemName)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(dir, DosControlFilename), []byte(ctl), 0o644); err != nil {
		return nil, fmt.Errorf("write dosmain control file: %w", err)
	}

	valName := systemName + ".Dos.val"
	vecName := systemName + ".Dos.vec"
	info := &CalcInfo{
		Code:          j.Code,
		CmdlineParams: append(append([]string{}, j.Code.PrependParams...), valName, vecName),
		StdinName:     DosControlFilename,
		RemoteLinks: []Symlink{
			{Source: path.Join(j.RemoteDir, valName), Target: valName},
			{Source: path.Join(j.RemoteDir, vecName), Target: vecName},
		},
		RetrieveList: retrieve,
	}
	j.logger().Debug("prepared dosmain job",
		zap.String("dir", dir),
		zap.String("method", j.Request.Method.String()),
		zap.Strings("retrieve", info.RetrieveList))
	return info, nil
}

// ParseOutputs reads the retrieved density-of-states table from dir.
func (j *DosMainJob) ParseOutputs(dir string) (dos.Table, error) {
	systemName := j.SystemName
	if systemName == "" {
		systemName = "openmx"
	}
	if err := j.Request.Validate(); err != nil {
		return dos.Table{}, &ExitError{Code: ExitDosInvalid, Err: err}
	}

	name := dos.OutputFilename(systemName, j.Request.Method)
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dos.Table{}, &ExitError{Code: ExitDosMissing, Err: fmt.Errorf("%w: %s", openmx.ErrOutputMissing, name)}
		}
		return dos.Table{}, &ExitError{Code: ExitDosRead, Err: fmt.Errorf("%w: %v", openmx.ErrOutputRead, err)}
	}
	defer f.Close()

	table, err := dos.ParseTable(f)
	if err != nil {
		ee := dosExitFor(err)
		j.logger().Warn("dos table extraction failed", zap.Int("exit", ee.Code), zap.Error(err))
		return dos.Table{}, ee
	}
	return table, nil
}
