package spritegif

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Mode selects which pipeline Build runs.
type Mode string

const (
	// Aligned locates the marker in each frame, lines the frames up on it and
	// adds the jump arc.
	Aligned Mode = "aligned"
	// Unaligned only crops each frame's edges before animating.
	Unaligned Mode = "unaligned"
)

// CellList is a list of cells written in YAML as [[col, row], ...].
type CellList []Cell

// UnmarshalYAML reads [[col, row], ...].
func (cl *CellList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var pairs [][]int
	if err := unmarshal(&pairs); err != nil {
		return err
	}
	cells := make(CellList, 0, len(pairs))
	for _, p := range pairs {
		if len(p) != 2 {
			return errors.Errorf("cell %v: want [col, row]", p)
		}
		cells = append(cells, Cell{Col: p[0], Row: p[1]})
	}
	*cl = cells
	return nil
}

// MarshalYAML writes [[col, row], ...].
func (cl CellList) MarshalYAML() (interface{}, error) {
	pairs := make([][]int, len(cl))
	for i, c := range cl {
		pairs[i] = []int{c.Col, c.Row}
	}
	return pairs, nil
}

// CropConfig holds both crop styles; Uniform applies in aligned mode and the
// per-edge fractions in unaligned mode.
type CropConfig struct {
	Uniform float64 `yaml:"uniform"`
	Edges   `yaml:",inline"`
}

// Config is every tunable of a build.
type Config struct {
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	Mode        Mode          `yaml:"mode"`
	Grid        Grid          `yaml:"grid"`
	Cells       CellList      `yaml:"cells"`
	JumpHeights []int         `yaml:"jump_heights"`
	Marker      MarkerOpts    `yaml:"marker"`
	Crop        CropConfig    `yaml:"crop"`
	Animation   AnimationOpts `yaml:"animation"`
	// Annotate, when set, is where the marker debug strip is written.
	Annotate string `yaml:"annotate"`
}

// File names used when none is configured.
const (
	DefaultInput           = "bonbon_dog_3x3.png"
	DefaultAlignedOutput   = "dog_running_aligned.gif"
	DefaultUnalignedOutput = "dog_running.gif"
)

// DefaultConfig reproduces the running dog: a 3x3 sheet, the middle and
// bottom rows, a small jump arc and a 5% trim.
func DefaultConfig() Config {
	return Config{
		Input:       DefaultInput,
		Mode:        Aligned,
		Grid:        Grid{Cols: 3, Rows: 3},
		Cells:       append(CellList(nil), DefaultCells...),
		JumpHeights: append([]int(nil), DefaultJumpHeights...),
		Marker:      DefaultMarkerOpts(),
		Crop: CropConfig{
			Uniform: DefaultUniformCrop,
			Edges:   DefaultEdges,
		},
		Animation: DefaultAnimationOpts(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// OutputPath is the configured output, or the mode's default file name.
func (c Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	if c.Mode == Unaligned {
		return DefaultUnalignedOutput
	}
	return DefaultAlignedOutput
}

// Validate reports the first problem that would make a build fail midway.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("no input sheet")
	}
	switch c.Mode {
	case Aligned, Unaligned:
	default:
		return errors.Errorf("unknown mode %q", string(c.Mode))
	}
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return errors.Errorf("invalid grid %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if len(c.Cells) == 0 {
		return errors.New("no cells selected")
	}
	for _, cell := range c.Cells {
		if !c.Grid.contains(cell) {
			return errors.Wrapf(ErrCellOutOfRange, "cell %s in %dx%d grid", cell, c.Grid.Cols, c.Grid.Rows)
		}
	}
	if c.Mode == Aligned {
		if len(c.JumpHeights) != len(c.Cells) {
			return errors.Wrapf(ErrLengthMismatch, "%d jump heights for %d cells", len(c.JumpHeights), len(c.Cells))
		}
		if c.Marker.ClusterSize < 1 {
			return errors.Errorf("cluster size %d, want at least 1", c.Marker.ClusterSize)
		}
		if c.Crop.Uniform < 0 || c.Crop.Uniform >= 0.5 {
			return errors.Errorf("crop fraction %v outside [0, 0.5)", c.Crop.Uniform)
		}
	} else if err := c.Crop.Edges.validate(); err != nil {
		return err
	}
	if c.Animation.DelayMS < 0 {
		return errors.Errorf("negative frame delay %dms", c.Animation.DelayMS)
	}
	if c.Animation.LoopCount < 0 {
		return errors.Errorf("negative loop count %d", c.Animation.LoopCount)
	}
	if _, err := c.Animation.Disposal.Method(); err != nil {
		return err
	}
	return nil
}

func (c Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%#v", c)
	}
	return string(out)
}
