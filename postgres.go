package pickyport

import (
	"fmt"
	"strconv"
)

// NewPostgresCommands returns a CommandBuilder that drives the stock
// pg_dump and psql client tools.
func NewPostgresCommands() CommandBuilder {
	return &postgresCommands{dump: "pg_dump", client: "psql"}
}

type postgresCommands struct {
	dump   string
	client string
}

func (pg *postgresCommands) DumpCommand(p Portage, outFile string) Command {
	args := []string{"--no-owner", "--no-privileges"}

	kind := "all tables and data"
	if !p.FetchData {
		args = append(args, "--schema-only")
		kind = "empty schema"
	} else if len(p.IgnoreTables) > 0 {
		kind = "selected tables and data"
	}

	for _, table := range p.IgnoreTables {
		args = append(args, "--exclude-table="+table)
	}

	args = append(args, "-f", outFile)
	args = append(args, pg.connArgs(p.Source)...)
	args = append(args, p.Source.Name)

	return Command{
		Echo: fmt.Sprintf("Dumping %s from %s.%s...", kind, p.Source.Host, p.Source.Name),
		Path: pg.dump,
		Args: args,
		Env:  pg.env(p.Source),
	}
}

func (pg *postgresCommands) CreateDatabaseCommands(p Portage) []Command {
	commands := make([]Command, 0, len(p.Dest))
	for _, dest := range p.Dest {
		sql := fmt.Sprintf(`DROP DATABASE IF EXISTS "%s"; CREATE DATABASE "%s";`, dest.Name, dest.Name)

		// connect to the maintenance database, not the one being dropped
		args := append(pg.connArgs(dest), "-d", "postgres", "-c", sql)

		commands = append(commands, Command{
			Echo: fmt.Sprintf("Creating %s on %s...", dest.Name, dest.Host),
			Path: pg.client,
			Args: args,
			Env:  pg.env(dest),
		})
	}
	return commands
}

func (pg *postgresCommands) GrantCommands(p Portage) []Command {
	var commands []Command
	for _, user := range p.TestUsers {
		for _, dest := range p.Dest {
			sql := postgresGrantSQL(user, dest)

			commands = append(commands, Command{
				Echo: fmt.Sprintf("Granting %s %s permission on %s.%s...",
					user.User, user.Permissions, dest.Host, dest.Name),
				Path: pg.client,
				Args: append(pg.connArgs(dest), "-d", dest.Name, "-c", sql),
				Env:  pg.env(dest),
			})
		}
	}
	return commands
}

func (pg *postgresCommands) LoadCommands(p Portage, sqlFile string) []Command {
	return pg.applyCommands(p, sqlFile, "Loading")
}

func (pg *postgresCommands) UpdateCommands(p Portage) []Command {
	return pg.applyCommands(p, p.Update, "Applying")
}

func (pg *postgresCommands) applyCommands(p Portage, sqlFile, verb string) []Command {
	commands := make([]Command, 0, len(p.Dest))
	for _, dest := range p.Dest {
		args := append(pg.connArgs(dest), "-v", "ON_ERROR_STOP=1", "-d", dest.Name, "-f", sqlFile)

		commands = append(commands, Command{
			Echo: fmt.Sprintf("%s %s on %s.%s...", verb, sqlFile, dest.Host, dest.Name),
			Path: pg.client,
			Args: args,
			Env:  pg.env(dest),
		})
	}
	return commands
}

func (pg *postgresCommands) connArgs(conn Connection) []string {
	return []string{
		"-h", conn.Host,
		"-p", strconv.Itoa(conn.PortOrDefault(DBTypePostgres)),
		"-U", conn.User,
	}
}

// env carries the password via PGPASSWORD, keeping it out of argv. An
// empty password leaves any ambient PGPASSWORD in effect.
func (pg *postgresCommands) env(conn Connection) []string {
	if conn.Password == "" {
		return nil
	}
	return []string{"PGPASSWORD=" + conn.Password}
}

func postgresGrantSQL(user UserGrant, dest Connection) string {
	create := fmt.Sprintf(
		"DO $$ BEGIN IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = '%s') THEN "+
			"CREATE ROLE \"%s\" LOGIN PASSWORD '%s'; END IF; END $$;",
		user.User, user.User, user.Password,
	)

	var grant string
	switch user.Permissions {
	case PermissionWrite:
		grant = fmt.Sprintf(`GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO "%s";`, user.User)
	case PermissionAdmin:
		grant = fmt.Sprintf(`GRANT ALL PRIVILEGES ON DATABASE "%s" TO "%s"; GRANT ALL PRIVILEGES ON ALL TABLES IN SCHEMA public TO "%s";`, dest.Name, user.User, user.User)
	default:
		grant = fmt.Sprintf(`GRANT SELECT ON ALL TABLES IN SCHEMA public TO "%s";`, user.User)
	}

	return create + " " + grant
}
