package calcjob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/input"
	"github.com/openmx-go/openmx/report"
	"github.com/openmx-go/openmx/schema"
)

// Default file names inside the job directory.
const (
	InputFilename  = "openmx.in"
	StdoutFilename = "openmx.log"
)

// Settings keys the OpenMX job recognizes. Keys are compared after
// uppercasing; anything else is rejected.
const (
	settingCmdline            = "CMDLINE"
	settingAdditionalRetrieve = "ADDITIONAL_RETRIEVE_LIST"
)

// OpenMXJob prepares one OpenMX run.
type OpenMXJob struct {
	Code    CodeInfo
	Inputs  input.Inputs
	Options input.Options
	// Settings carries scheduler-level extras: CMDLINE (extra command-line
	// arguments) and ADDITIONAL_RETRIEVE_LIST (extra files to pull back).
	Settings map[string]any
	Logger   *zap.Logger
}

func (j *OpenMXJob) logger() *zap.Logger {
	if j.Logger == nil {
		return zap.NewNop()
	}
	return j.Logger
}

// Prepare composes the deck, writes it into dir, and returns the submission
// description. dir must exist.
func (j *OpenMXJob) Prepare(dir string) (*CalcInfo, error) {
	deck, err := input.Compose(j.Inputs, j.Options)
	if err != nil {
		return nil, err
	}

	cmdline, extraRetrieve, err := j.parseSettings()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(dir, InputFilename), []byte(deck.Text), 0o644); err != nil {
		return nil, fmt.Errorf("write input deck: %w", err)
	}

	opts := j.Options
	systemName := opts.SystemName
	if systemName == "" {
		systemName = "openmx"
	}

	retrieve := []string{StdoutFilename}
	if opts.DOSOutput {
		retrieve = append(retrieve, systemName+".Dos.val", systemName+".Dos.vec")
	}
	retrieve = append(retrieve, extraRetrieve...)

	// OpenMX takes the input file as its first argument; CMDLINE extras such
	// as -nt follow it.
	args := append([]string{}, j.Code.PrependParams...)
	args = append(args, InputFilename)
	args = append(args, cmdline...)

	info := &CalcInfo{
		Code:          j.Code,
		CmdlineParams: args,
		StdoutName:    StdoutFilename,
		LocalCopies:   append(append([]input.Staging{}, deck.PseudoCopies...), deck.OrbitalCopies...),
		RetrieveList:  retrieve,
	}
	j.logger().Debug("prepared openmx job",
		zap.String("dir", dir),
		zap.Int("local_copies", len(info.LocalCopies)),
		zap.Strings("retrieve", info.RetrieveList))
	return info, nil
}

// parseSettings validates the settings map and extracts the recognized keys.
func (j *OpenMXJob) parseSettings() (cmdline, retrieve []string, err error) {
	if len(j.Settings) == 0 {
		return nil, nil, nil
	}
	upper, err := schema.UppercaseKeys(j.Settings, "settings")
	if err != nil {
		return nil, nil, err
	}
	var iss openmx.Issues
	for key, v := range upper {
		switch key {
		case settingCmdline:
			ss, ok := stringSlice(v)
			if !ok {
				iss = openmx.AppendIssues(iss, openmx.Issue{
					Keyword: key,
					Code:    openmx.CodeInvalidType,
					Message: "CMDLINE must be a list of strings",
				})
				continue
			}
			cmdline = ss
		case settingAdditionalRetrieve:
			ss, ok := stringSlice(v)
			if !ok {
				iss = openmx.AppendIssues(iss, openmx.Issue{
					Keyword: key,
					Code:    openmx.CodeInvalidType,
					Message: "ADDITIONAL_RETRIEVE_LIST must be a list of strings",
				})
				continue
			}
			retrieve = ss
		default:
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: key,
				Code:    openmx.CodeUnknownKeyword,
				Message: fmt.Sprintf("unrecognized settings key %q", key),
			})
		}
	}
	if len(iss) > 0 {
		return nil, nil, iss
	}
	return cmdline, retrieve, nil
}

// ParseOutputs reads the retrieved stdout from dir and extracts the run's
// results, mapping failures onto the exit-code table.
func (j *OpenMXJob) ParseOutputs(dir string, opts report.Options) (*report.Record, error) {
	f, err := os.Open(filepath.Join(dir, StdoutFilename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ExitError{Code: ExitOutputMissing, Err: fmt.Errorf("%w: %s", openmx.ErrOutputMissing, StdoutFilename)}
		}
		return nil, &ExitError{Code: ExitOutputRead, Err: fmt.Errorf("%w: %v", openmx.ErrOutputRead, err)}
	}
	defer f.Close()

	rec, err := report.Parse(f, opts)
	if err != nil {
		ee := exitFor(err)
		j.logger().Warn("output extraction failed", zap.Int("exit", ee.Code), zap.Error(err))
		return nil, ee
	}
	return rec, nil
}

func stringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
