package preset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name  string
	p     Preset
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(_ context.Context, id string) (Preset, error) {
	f.calls++
	if f.err != nil {
		return Preset{}, f.err
	}
	p := f.p
	p.ID = id
	return p, nil
}

func notFound(name string) *fakeSource {
	return &fakeSource{name: name, err: fmt.Errorf("miss: %w", ErrNotFound)}
}

func TestChain_FirstHitWins(t *testing.T) {
	redis := notFound("redis")
	pg := &fakeSource{name: "postgres", p: Preset{Name: "from pg"}}
	file := &fakeSource{name: "file", p: Preset{Name: "from file"}}

	var hit string
	c := &Chain{Sources: []Source{redis, pg, file}, OnHit: func(s string) { hit = s }}
	p, err := c.Load(context.Background(), "wc2022")
	require.NoError(t, err)

	assert.Equal(t, "from pg", p.Name)
	assert.Equal(t, "postgres", hit)
	assert.Equal(t, 1, redis.calls)
	assert.Zero(t, file.calls)
}

func TestChain_ErrorsDoNotStopTheChain(t *testing.T) {
	broken := &fakeSource{name: "redis", err: errors.New("i/o timeout")}
	file := &fakeSource{name: "file", p: Preset{Name: "from file"}}

	var stages []string
	c := &Chain{Sources: []Source{broken, file}, OnError: func(s string) { stages = append(stages, s) }}
	p, err := c.Load(context.Background(), "wc2026")
	require.NoError(t, err)
	assert.Equal(t, "from file", p.Name)
	assert.Equal(t, []string{"preset_redis"}, stages)
}

func TestChain_AllMiss(t *testing.T) {
	c := &Chain{Sources: []Source{notFound("redis"), notFound("file")}}
	_, err := c.Load(context.Background(), "wc1930")
	assert.ErrorIs(t, err, ErrNotFound)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileSource_NestedGroupsAndResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wc2022_groups.json", `{"name":"Qatar 2022","groups":{"Group A":["Qatar","Ecuador","Senegal","Netherlands"]}}`)
	writeFile(t, dir, "wc2022_simulation.json", `{"champions":{"Brazil":31},"finalists":{"Brazil":50},"semifinalists":{"Brazil":70},"n_sims":100,"metadata":{"seed":42}}`)

	p, err := FileSource{Dir: dir}.Load(context.Background(), "wc2022")
	require.NoError(t, err)

	assert.Equal(t, "wc2022", p.ID)
	assert.Equal(t, "Qatar 2022", p.Name)
	assert.Equal(t, "32_team", p.Format)
	assert.Equal(t, []string{"Qatar", "Ecuador", "Senegal", "Netherlands"}, p.Groups["Group A"])
	assert.Equal(t, 31, p.Champions["Brazil"])
	assert.Equal(t, 100, p.NSims)
	assert.EqualValues(t, 42, p.Metadata["seed"])
}

func TestFileSource_BareGroupMapInfersFormat(t *testing.T) {
	dir := t.TempDir()
	body := "{"
	for i, g := range "ABCDEFGHIJKL" {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`"Group %c":["%c1","%c2","%c3","%c4"]`, g, g, g, g, g)
	}
	body += "}"
	writeFile(t, dir, "wc2026_groups.json", body)

	p, err := FileSource{Dir: dir}.Load(context.Background(), "wc2026")
	require.NoError(t, err)
	assert.Equal(t, "48_team", p.Format)
	assert.Equal(t, "World Cup 2026", p.Name)
	assert.Len(t, p.Groups, 12)
	assert.Nil(t, p.Champions)
}

func TestFileSource_GroupsFromSimulationMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wc2022_simulation.json", `{"champions":{"France":3},"metadata":{"groups":{"A":["a","b","c","d"]}}}`)

	p, err := FileSource{Dir: dir}.Load(context.Background(), "wc2022")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"A": {"a", "b", "c", "d"}}, p.Groups)
	assert.Equal(t, 3, p.Champions["France"])
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Dir: t.TempDir()}.Load(context.Background(), "wc2022")
	assert.ErrorIs(t, err, ErrNotFound)

	dir := t.TempDir()
	writeFile(t, dir, "wc2022_groups.json", `not json`)
	_, err = FileSource{Dir: dir}.Load(context.Background(), "wc2022")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *[]byte:
			*p = []byte(r[i].(string))
		case *int:
			*p = r[i].(int)
		case *time.Time:
			*p = r[i].(time.Time)
		}
	}
	return nil
}

func TestScanPreset(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	row := fakeRow{"wc2026", "2026 FIFA World Cup (Projected)", "48_team",
		`{"A":["Mexico","South Africa","South Korea","Denmark"]}`,
		`{"Spain":120}`, `{"Spain":200}`, `{"Spain":300}`, 1000, now}

	p, err := scanPreset(row)
	require.NoError(t, err)
	assert.Equal(t, "wc2026", p.ID)
	assert.Equal(t, 120, p.Champions["Spain"])
	assert.Equal(t, 1000, p.NSims)
	assert.Equal(t, now, p.UpdatedAt)

	row[4] = `{broken`
	_, err = scanPreset(row)
	assert.Error(t, err)
}

func TestKnownPresets(t *testing.T) {
	info, ok := Lookup("wc2026")
	require.True(t, ok)
	assert.Equal(t, "48_team", info.Format)

	_, ok = Lookup("wc1930")
	assert.False(t, ok)

	assert.Equal(t, "32_team", InferFormat(map[string][]string{"A": nil}))
	assert.Equal(t, []string{"wc2022", "wc2026"}, KnownIDs())
}
