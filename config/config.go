package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPackName      = "trade.demo"
	DefaultPackVersion   = "1.0.0"
	DefaultEngineName    = "vojker-go"
	DefaultEngineVersion = "1.0.0"
	DefaultHash          = "sha256"
)

var (
	// ErrMissingCaseDir returned when no case directory was given.
	ErrMissingCaseDir = errors.New("missing <case_dir>")
	// ErrTooManyArgs returned when more than one case directory was given.
	ErrTooManyArgs = errors.New("expected a single <case_dir>")
)

// Usage printed when arguments are missing or invalid.
const Usage = `USAGE:
  vojker <case_dir>
  vojker --bless <case_dir>

FLAGS:
  --bless           rewrite expected_audit.json from the current output
  --config string   path to yaml config
  --hash string     content fingerprint algorithm: sha256 | blake3
  --journal string  directory of the run journal (disabled when empty)`

// Identity name and version pair.
type Identity struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type Config struct {
	CaseDir    string
	Bless      bool
	Pack       Identity
	Engine     Identity
	Hash       string
	JournalDir string
}

type ConfigTmp struct {
	Pack       Identity `yaml:"pack"`
	Engine     Identity `yaml:"engine"`
	Hash       string   `yaml:"hash,omitempty"`
	JournalDir string   `yaml:"journal_dir,omitempty"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Pack:   Identity{Name: DefaultPackName, Version: DefaultPackVersion},
		Engine: Identity{Name: DefaultEngineName, Version: DefaultEngineVersion},
		Hash:   DefaultHash,
	}
}

// Get parses command-line arguments (without the program name).
// Flags override the yaml file, which overrides defaults.
func Get(args []string) (Config, error) {
	fs := pflag.NewFlagSet("vojker", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	bless := fs.Bool("bless", false, "rewrite expected_audit.json from the current output")
	configPath := fs.String("config", "", "path to yaml config")
	hash := fs.String("hash", DefaultHash, "content fingerprint algorithm")
	journal := fs.String("journal", "", "directory of the run journal")

	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	conf := Default()
	if *configPath != "" {
		var err error
		conf, err = getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
	}

	if fs.Changed("hash") {
		conf.Hash = *hash
	}
	if fs.Changed("journal") {
		conf.JournalDir = *journal
	}
	conf.Bless = *bless

	switch fs.NArg() {
	case 0:
		return Config{}, ErrMissingCaseDir
	case 1:
		conf.CaseDir = fs.Arg(0)
	default:
		return Config{}, ErrTooManyArgs
	}

	return conf, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read yaml config")
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "decode yaml config")
	}

	conf := Default()
	if tmp.Pack.Name != "" {
		conf.Pack.Name = tmp.Pack.Name
	}
	if tmp.Pack.Version != "" {
		conf.Pack.Version = tmp.Pack.Version
	}
	if tmp.Engine.Name != "" {
		conf.Engine.Name = tmp.Engine.Name
	}
	if tmp.Engine.Version != "" {
		conf.Engine.Version = tmp.Engine.Version
	}
	if tmp.Hash != "" {
		conf.Hash = tmp.Hash
	}
	conf.JournalDir = tmp.JournalDir

	return conf, nil
}
