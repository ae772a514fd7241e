package database

// Config holds configuration for the database connection.
type Config struct {
	// Driver is mysql, or memory to keep everything in process.
	Driver string `mapstructure:"driver" default:"memory"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"rosterbot"`
	// TimeoutSeconds bounds connecting, reading and writing.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
