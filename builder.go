package pickyport

// Permission levels a test user can be granted on the destinations.
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// CommandBuilder translates a portage into concrete command lines for one
// database engine. Builders never execute anything and never inspect the
// SQL the external tools move around.
type CommandBuilder interface {
	DumpCommand(p Portage, outFile string) Command
	CreateDatabaseCommands(p Portage) []Command
	GrantCommands(p Portage) []Command
	LoadCommands(p Portage, sqlFile string) []Command
	UpdateCommands(p Portage) []Command
}

// BuilderFor returns the engine builder for a validated db_type.
func BuilderFor(dbType string) CommandBuilder {
	if dbType == DBTypePostgres {
		return NewPostgresCommands()
	}
	return NewMySQLCommands()
}
