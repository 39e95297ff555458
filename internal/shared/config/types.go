package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LDAPConfig configures the directory service client. GroupOU is the DN of
// the organisational unit holding managed storage groups, UserOU the subtree
// searched for user entries.
type LDAPConfig struct {
	URI            string `mapstructure:"uri"`
	BindDN         string `mapstructure:"bind_dn"`
	BindPassword   string `mapstructure:"bind_password"`
	GroupOU        string `mapstructure:"group_ou"`
	UserOU         string `mapstructure:"user_ou"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GPFSConfig configures the filesystem administrative API client.
type GPFSConfig struct {
	APIURL            string `mapstructure:"api_url"`
	Username          string `mapstructure:"username"`
	Password          string `mapstructure:"password"`
	Filesystem        string `mapstructure:"filesystem"`
	ParentFileset     string `mapstructure:"parent_fileset"`
	JobTimeoutSeconds int    `mapstructure:"job_timeout_seconds"`
	VerifyTLS         bool   `mapstructure:"verify_tls"`
}

// GraphConfig configures the Microsoft Graph identity client.
type GraphConfig struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserDomain   string `mapstructure:"user_domain"`
}

type EmailConfig struct {
	SMTPHost     string   `mapstructure:"smtp_host"`
	SMTPPort     int      `mapstructure:"smtp_port"`
	SMTPUser     string   `mapstructure:"smtp_user"`
	SMTPPassword string   `mapstructure:"smtp_password"`
	FromAddress  string   `mapstructure:"from_address"`
	AdminList    []string `mapstructure:"admin_list"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GIDConfig bounds the pool of group identifiers this service may assign.
// Floor is persisted on first use so lowering it later cannot cause reuse.
type GIDConfig struct {
	Floor   uint `mapstructure:"floor"`
	Ceiling uint `mapstructure:"ceiling"`
}

// JobsConfig tunes the scheduled quota sync and membership audit runs.
type JobsConfig struct {
	Workers              int `mapstructure:"workers"`
	IntervalHours        int `mapstructure:"interval_hours"`
	LockTTLMinutes       int `mapstructure:"lock_ttl_minutes"`
	ExpiryNoticeDays     int `mapstructure:"expiry_notice_days"`
	ExternalCallTimeoutS int `mapstructure:"external_call_timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}
