package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSource lê {Dir}/{id}_groups.json e {Dir}/{id}_simulation.json
type FileSource struct {
	Dir string
}

func (FileSource) Name() string { return "file" }

type groupsFile struct {
	Name   string              `json:"name"`
	Format string              `json:"format"`
	Groups map[string][]string `json:"groups"`
}

type simulationFile struct {
	Champions     map[string]int `json:"champions"`
	Finalists     map[string]int `json:"finalists"`
	Semifinalists map[string]int `json:"semifinalists"`
	NSims         int            `json:"n_sims"`
	Metadata      map[string]any `json:"metadata"`
}

func (s FileSource) Load(_ context.Context, id string) (Preset, error) {
	gf, err := s.readGroups(id)
	if err != nil {
		return Preset{}, err
	}

	sim, hasSim, err := s.readSimulation(id)
	if err != nil {
		return Preset{}, err
	}

	// sem arquivo de grupos, tenta metadata.groups do arquivo de simulação
	if len(gf.Groups) == 0 && hasSim {
		gf.Groups = groupsFromMetadata(sim.Metadata)
	}
	if len(gf.Groups) == 0 {
		return Preset{}, fmt.Errorf("%s files: %w", id, ErrNotFound)
	}

	p := Preset{
		ID:     id,
		Name:   gf.Name,
		Format: gf.Format,
		Groups: gf.Groups,
	}
	if p.Name == "" {
		p.Name = DefaultName(id)
	}
	if p.Format == "" {
		p.Format = InferFormat(p.Groups)
	}
	if hasSim {
		p.Champions = sim.Champions
		p.Finalists = sim.Finalists
		p.Semifinalists = sim.Semifinalists
		p.NSims = sim.NSims
		p.Metadata = sim.Metadata
	}
	return p, nil
}

// readGroups aceita {"groups": {...}} ou o mapa de grupos direto
func (s FileSource) readGroups(id string) (groupsFile, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, id+"_groups.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return groupsFile{}, nil
	}
	if err != nil {
		return groupsFile{}, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return groupsFile{}, fmt.Errorf("decode %s groups: %w", id, err)
	}

	var gf groupsFile
	if _, nested := probe["groups"]; nested {
		err = json.Unmarshal(b, &gf)
	} else {
		err = json.Unmarshal(b, &gf.Groups)
	}
	if err != nil {
		return groupsFile{}, fmt.Errorf("decode %s groups: %w", id, err)
	}
	return gf, nil
}

func (s FileSource) readSimulation(id string) (simulationFile, bool, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, id+"_simulation.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return simulationFile{}, false, nil
	}
	if err != nil {
		return simulationFile{}, false, err
	}
	var sim simulationFile
	if err := json.Unmarshal(b, &sim); err != nil {
		return simulationFile{}, false, fmt.Errorf("decode %s simulation: %w", id, err)
	}
	return sim, true, nil
}

func groupsFromMetadata(meta map[string]any) map[string][]string {
	raw, ok := meta["groups"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for name, v := range raw {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		for _, t := range list {
			if team, ok := t.(string); ok {
				out[name] = append(out[name], team)
			}
		}
	}
	return out
}
