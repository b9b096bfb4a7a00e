package pickyport

import (
	"fmt"
	"strconv"
)

// NewMySQLCommands returns a CommandBuilder that drives the stock
// mysqldump and mysql client tools.
func NewMySQLCommands() CommandBuilder {
	return &mysqlCommands{dump: "mysqldump", client: "mysql"}
}

type mysqlCommands struct {
	dump   string
	client string
}

func (m *mysqlCommands) DumpCommand(p Portage, outFile string) Command {
	args := []string{"--lock-tables=false", "--routines", "--single-transaction"}

	kind := "all tables and data"
	if !p.FetchData {
		args = append(args, "--no-data")
		kind = "empty schema"
	} else {
		args = append(args, "--complete-insert")
		if len(p.IgnoreTables) > 0 {
			kind = "selected tables and data"
		}
	}

	for _, table := range p.IgnoreTables {
		args = append(args, fmt.Sprintf("--ignore-table=%s.%s", p.Source.Name, table))
	}

	args = append(args, "--result-file="+outFile)
	args = append(args, m.connArgs(p.Source)...)
	args = append(args, p.Source.Name)

	return Command{
		Echo: fmt.Sprintf("Dumping %s from %s.%s...", kind, p.Source.Host, p.Source.Name),
		Path: m.dump,
		Args: args,
		Env:  m.env(p.Source),
	}
}

func (m *mysqlCommands) CreateDatabaseCommands(p Portage) []Command {
	commands := make([]Command, 0, len(p.Dest))
	for _, dest := range p.Dest {
		sql := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`; CREATE DATABASE `%s`;", dest.Name, dest.Name)

		// no database selected: the statement drops the one we would select
		args := append(m.connArgs(dest), "-e", sql)

		commands = append(commands, Command{
			Echo: fmt.Sprintf("Creating %s on %s...", dest.Name, dest.Host),
			Path: m.client,
			Args: args,
			Env:  m.env(dest),
		})
	}
	return commands
}

func (m *mysqlCommands) GrantCommands(p Portage) []Command {
	var commands []Command
	for _, user := range p.TestUsers {
		privileges := mysqlPrivileges(user.Permissions)
		for _, dest := range p.Dest {
			sql := fmt.Sprintf(
				"CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'; "+
					"GRANT %s ON `%s`.* TO '%s'@'%%'; FLUSH PRIVILEGES;",
				user.User, user.Password, privileges, dest.Name, user.User,
			)

			commands = append(commands, Command{
				Echo: fmt.Sprintf("Granting %s %s permission on %s.%s...",
					user.User, user.Permissions, dest.Host, dest.Name),
				Path: m.client,
				Args: append(m.connArgs(dest), "-e", sql),
				Env:  m.env(dest),
			})
		}
	}
	return commands
}

func (m *mysqlCommands) LoadCommands(p Portage, sqlFile string) []Command {
	commands := make([]Command, 0, len(p.Dest))
	for _, dest := range p.Dest {
		commands = append(commands, Command{
			Echo:  fmt.Sprintf("Loading %s on %s.%s...", sqlFile, dest.Host, dest.Name),
			Path:  m.client,
			Args:  append(m.connArgs(dest), dest.Name),
			Env:   m.env(dest),
			Stdin: sqlFile,
		})
	}
	return commands
}

func (m *mysqlCommands) UpdateCommands(p Portage) []Command {
	commands := make([]Command, 0, len(p.Dest))
	for _, dest := range p.Dest {
		commands = append(commands, Command{
			Echo:  fmt.Sprintf("Applying %s to %s.%s...", p.Update, dest.Host, dest.Name),
			Path:  m.client,
			Args:  append(m.connArgs(dest), dest.Name),
			Env:   m.env(dest),
			Stdin: p.Update,
		})
	}
	return commands
}

func (m *mysqlCommands) connArgs(conn Connection) []string {
	return []string{
		"-h" + conn.Host,
		"-P" + strconv.Itoa(conn.PortOrDefault(DBTypeMySQL)),
		"--protocol=TCP",
		"-u" + conn.User,
	}
}

// env carries the password to the child via MYSQL_PWD so it never shows
// up in process listings. An empty password emits nothing, leaving any
// ambient MYSQL_PWD in effect.
func (m *mysqlCommands) env(conn Connection) []string {
	if conn.Password == "" {
		return nil
	}
	return []string{"MYSQL_PWD=" + conn.Password}
}

func mysqlPrivileges(permissions string) string {
	switch permissions {
	case PermissionWrite:
		return "SELECT, INSERT, UPDATE, DELETE"
	case PermissionAdmin:
		return "ALL PRIVILEGES"
	default:
		return "SELECT"
	}
}
