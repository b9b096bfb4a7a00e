package pickyport

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
)

// Config is the parsed configuration file: an ordered list of portages,
// each describing one source-to-destination(s) migration job.
type Config struct {
	Portages []Portage `yaml:"portages"`
}

type Portage struct {
	DBType       string       `yaml:"db_type"`
	FetchData    bool         `yaml:"fetch_data"`
	IgnoreTables []string     `yaml:"ignore_tables"`
	CreateDestDB bool         `yaml:"create_dest_db"`
	TestUsers    []UserGrant  `yaml:"test_users"`
	Source       Connection   `yaml:"source"`
	Dest         []Connection `yaml:"dest"`
	Update       string       `yaml:"update"`
}

type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type UserGrant struct {
	Permissions string `yaml:"permissions"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
}

// UnmarshalYAML applies the defaults a portage entry gets when keys are
// omitted: mysql, with data.
func (p *Portage) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawPortage Portage
	raw := rawPortage{
		DBType:    DBTypeMySQL,
		FetchData: true,
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*p = Portage(raw)
	return nil
}

var identifierRegexp = regexp.MustCompile(`^[0-9a-zA-Z$_]+$`)

// LoadConfig reads and validates the yaml configuration at path. Unknown
// keys are rejected so typos fail here instead of deep inside a portage.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "cannot read configuration", Err: err}
	}

	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, &ConfigError{Path: path, Reason: "cannot parse configuration", Err: err}
	}

	if len(config.Portages) == 0 {
		return nil, &ConfigError{Path: path, Reason: "no portages defined"}
	}

	for i := range config.Portages {
		if err := config.Portages[i].validate(); err != nil {
			return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("portage %d: %s", i+1, err)}
		}
	}

	return &config, nil
}

func (p *Portage) validate() error {
	if p.DBType != DBTypeMySQL && p.DBType != DBTypePostgres {
		return fmt.Errorf("unsupported db_type %q", p.DBType)
	}

	if err := p.Source.validate(); err != nil {
		return fmt.Errorf("source: %s", err)
	}

	if len(p.Dest) == 0 {
		return fmt.Errorf("at least one dest is required")
	}
	for i := range p.Dest {
		if err := p.Dest[i].validate(); err != nil {
			return fmt.Errorf("dest %d: %s", i+1, err)
		}
	}

	for _, table := range p.IgnoreTables {
		if !identifierRegexp.MatchString(table) {
			return fmt.Errorf("ignore_tables entry %q is not a valid identifier", table)
		}
	}

	for _, user := range p.TestUsers {
		switch user.Permissions {
		case PermissionRead, PermissionWrite, PermissionAdmin:
		default:
			return fmt.Errorf("test user %q has unknown permissions %q", user.User, user.Permissions)
		}
		if !identifierRegexp.MatchString(user.User) {
			return fmt.Errorf("test user %q is not a valid identifier", user.User)
		}
		// user and password end up inside grant statements
		if strings.ContainsAny(user.Password, `'\`) {
			return fmt.Errorf("test user %q has a password containing quote or backslash characters", user.User)
		}
	}

	return nil
}

func (c *Connection) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	return nil
}

// PortOrDefault returns the configured port, or the engine's standard
// port when the key was omitted.
func (c Connection) PortOrDefault(dbType string) int {
	if c.Port != 0 {
		return c.Port
	}
	if dbType == DBTypePostgres {
		return 5432
	}
	return 3306
}
