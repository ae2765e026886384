package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/fedpower/federated"
	"github.com/sartorproj/fedpower/optimize"
	"github.com/sartorproj/fedpower/power"
)

// envPrefix prefixes every environment override, e.g. POWERFIT_CLIENTS.
const envPrefix = "POWERFIT"

// RunConfig holds the settings shared by all commands. Values are read from
// the YAML file first, then from POWERFIT_* variables, then from flags.
type RunConfig struct {
	Data       string    `yaml:"data" envconfig:"DATA" validate:"required"`
	Column     string    `yaml:"column" envconfig:"COLUMN"`
	Family     string    `yaml:"family" envconfig:"FAMILY" validate:"required,family"`
	Variance   string    `yaml:"variance" envconfig:"VARIANCE" validate:"required,variance"`
	Method     string    `yaml:"method" envconfig:"METHOD" validate:"required,method"`
	GridPoints int       `yaml:"grid_points" envconfig:"GRID_POINTS" validate:"gte=1"`
	Clients    int       `yaml:"clients" envconfig:"CLIENTS" validate:"gte=1"`
	Workers    int       `yaml:"workers" envconfig:"WORKERS" validate:"gte=1"`
	Seed       uint64    `yaml:"seed" envconfig:"SEED"`
	Reps       int       `yaml:"reps" envconfig:"REPS" validate:"gte=1"`
	Bracket    []float64 `yaml:"bracket" envconfig:"BRACKET" validate:"omitempty,min=2,max=3"`
	Output     string    `yaml:"output" envconfig:"OUTPUT"`
}

// DefaultRunConfig returns the defaults applied before any source is read.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Family:     power.BoxCox.String(),
		Variance:   federated.Pairwise.String(),
		Method:     optimize.MethodBrent.String(),
		GridPoints: optimize.DefaultGridPoints,
		Clients:    1,
		Workers:    1,
		Reps:       1,
	}
}

// Resolved holds the parsed enumerations of a validated RunConfig.
type Resolved struct {
	Family   power.Family
	Variance federated.VarianceMode
	Method   optimize.Method
}

// Resolve parses the enumerated fields. It assumes Validate passed.
func (c *RunConfig) Resolve() (Resolved, error) {
	var (
		r   Resolved
		err error
	)
	if r.Family, err = power.ParseFamily(c.Family); err != nil {
		return r, err
	}
	if r.Variance, err = federated.ParseVarianceMode(c.Variance); err != nil {
		return r, err
	}
	if r.Method, err = optimize.ParseMethod(c.Method); err != nil {
		return r, err
	}
	return r, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	parses := func(parse func(string) error) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return parse(fl.Field().String()) == nil
		}
	}
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("family", parses(func(s string) error {
		_, err := power.ParseFamily(s)
		return err
	}))
	_ = v.RegisterValidation("variance", parses(func(s string) error {
		_, err := federated.ParseVarianceMode(s)
		return err
	}))
	_ = v.RegisterValidation("method", parses(func(s string) error {
		_, err := optimize.ParseMethod(s)
		return err
	}))
	return v
}

// Validate checks the struct tags and reports every failing field.
func (c *RunConfig) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// loadFile merges a YAML file into cfg. Keys missing from the file keep
// their current values.
func loadFile(path string, cfg *RunConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadConfig builds the RunConfig for cmd: defaults, then the --config file,
// then the environment, then flags set on the command line.
func LoadConfig(cmd *cobra.Command) (*RunConfig, error) {
	cfg := DefaultRunConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyFlags copies the flags the user set explicitly. Flags that cmd does
// not define are ignored.
func applyFlags(cmd *cobra.Command, cfg *RunConfig) error {
	fs := cmd.Flags()
	var err error
	set := func(name string, fn func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = fn()
	}

	set("data", func() (e error) { cfg.Data, e = fs.GetString("data"); return })
	set("column", func() (e error) { cfg.Column, e = fs.GetString("column"); return })
	set("family", func() (e error) { cfg.Family, e = fs.GetString("family"); return })
	set("variance", func() (e error) { cfg.Variance, e = fs.GetString("variance"); return })
	set("method", func() (e error) { cfg.Method, e = fs.GetString("method"); return })
	set("grid-points", func() (e error) { cfg.GridPoints, e = fs.GetInt("grid-points"); return })
	set("clients", func() (e error) { cfg.Clients, e = fs.GetInt("clients"); return })
	set("workers", func() (e error) { cfg.Workers, e = fs.GetInt("workers"); return })
	set("seed", func() (e error) { cfg.Seed, e = fs.GetUint64("seed"); return })
	set("reps", func() (e error) { cfg.Reps, e = fs.GetInt("reps"); return })
	set("bracket", func() (e error) { cfg.Bracket, e = fs.GetFloat64Slice("bracket"); return })
	set("output", func() (e error) { cfg.Output, e = fs.GetString("output"); return })

	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
