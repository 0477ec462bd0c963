// Package seed loads YAML fixture files and replays them through the
// command pipeline, so seeded records get the same validation, activity
// logging, and events as interactive mutations.
package seed

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/trovehq/trove/internal/command"
	"github.com/trovehq/trove/internal/log"
)

// File is the root structure for a seed YAML file.
type File struct {
	Records []RecordDef `yaml:"records"`
}

// RecordDef defines one seeded record and the machine events to replay
// against it after creation.
type RecordDef struct {
	Type        string         `yaml:"type"`
	Data        map[string]any `yaml:"data"`
	Transitions []string       `yaml:"transitions"`
}

// Load parses a seed file from fsys.
func Load(fsys fs.FS, path string) (*File, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(file.Records) == 0 {
		return nil, fmt.Errorf("no records found in %s", path)
	}

	for i, rec := range file.Records {
		if rec.Type == "" {
			return nil, fmt.Errorf("record %d in %s has no type", i, path)
		}
	}

	return &file, nil
}

// Report summarizes an Apply run.
type Report struct {
	Created     int
	Transitions int
}

// Apply replays the file's records through the commander. It stops on the
// first failure: the fixture is authored content, and a failing entry means
// the file is wrong, not the data.
func Apply(ctx context.Context, c *command.Commander, file *File, actor string) (Report, error) {
	var report Report
	prov := command.Provenance{Actor: actor}

	for i, def := range file.Records {
		res := c.Create(ctx, def.Type, def.Data, prov)
		if !res.Success {
			return report, fmt.Errorf("record %d (%s): %w", i, def.Type, res.Err)
		}
		report.Created++

		for _, event := range def.Transitions {
			res = c.Transition(ctx, def.Type, res.ID, event, prov)
			if !res.Success {
				return report, fmt.Errorf("record %d (%s) event %s: %w", i, def.Type, event, res.Err)
			}
			report.Transitions++
		}

		log.Debug(log.CatSeed, "seeded record", "type", def.Type, "id", res.ID)
	}

	return report, nil
}
