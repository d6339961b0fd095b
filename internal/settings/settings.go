package settings

// Sentinel is the literal a deployment pipeline is expected to replace
// before the document is considered deployment-ready. A sentinel reaching a
// consumption point at runtime is a configuration error.
const Sentinel = "** OVERRIDDEN **"

// Cache describes a single named cache definition.
type Cache struct {
	Backend     string   `json:"BACKEND" yaml:"BACKEND"`
	KeyFunction string   `json:"KEY_FUNCTION" yaml:"KEY_FUNCTION"`
	KeyPrefix   string   `json:"KEY_PREFIX" yaml:"KEY_PREFIX"`
	Locations   []string `json:"LOCATION" yaml:"LOCATION"`
}

// CodeJailLimits bounds sandboxed code execution. Zero means unlimited.
type CodeJailLimits struct {
	Realtime int64 `json:"REALTIME" yaml:"REALTIME"`
	VMem     int64 `json:"VMEM" yaml:"VMEM"`
}

// CodeJail groups the sandbox resource limits.
type CodeJail struct {
	Limits CodeJailLimits `json:"limits" yaml:"limits"`
}

// Document is the parsed environment document. Field names mirror the keys
// of the deployed file; an empty string means "not configured" for endpoint
// fields. The struct is treated as read-only after Load.
type Document struct {
	Caches                map[string]Cache `json:"CACHES" yaml:"CACHES"`
	CeleryBrokerHostname  string           `json:"CELERY_BROKER_HOSTNAME" yaml:"CELERY_BROKER_HOSTNAME"`
	CeleryBrokerTransport string           `json:"CELERY_BROKER_TRANSPORT" yaml:"CELERY_BROKER_TRANSPORT"`
	CertQueue             string           `json:"CERT_QUEUE" yaml:"CERT_QUEUE"`
	CMSBase               string           `json:"CMS_BASE" yaml:"CMS_BASE"`
	CodeJail              CodeJail         `json:"CODE_JAIL" yaml:"CODE_JAIL"`
	CommentsServiceKey    string           `json:"COMMENTS_SERVICE_KEY" yaml:"COMMENTS_SERVICE_KEY"`
	CommentsServiceURL    string           `json:"COMMENTS_SERVICE_URL" yaml:"COMMENTS_SERVICE_URL"`
	BugsEmail             string           `json:"BUGS_EMAIL" yaml:"BUGS_EMAIL"`
	ContactEmail          string           `json:"CONTACT_EMAIL" yaml:"CONTACT_EMAIL"`
	DefaultFeedbackEmail  string           `json:"DEFAULT_FEEDBACK_EMAIL" yaml:"DEFAULT_FEEDBACK_EMAIL"`
	DefaultFromEmail      string           `json:"DEFAULT_FROM_EMAIL" yaml:"DEFAULT_FROM_EMAIL"`
	EmailBackend          string           `json:"EMAIL_BACKEND" yaml:"EMAIL_BACKEND"`
	Features              map[string]any   `json:"FEATURES" yaml:"FEATURES"`
	LanguageCode          string           `json:"LANGUAGE_CODE" yaml:"LANGUAGE_CODE"`
	LMSBase               string           `json:"LMS_BASE" yaml:"LMS_BASE"`
	LocalLoglevel         string           `json:"LOCAL_LOGLEVEL" yaml:"LOCAL_LOGLEVEL"`
	LogDir                string           `json:"LOG_DIR" yaml:"LOG_DIR"`
	LoggingEnv            string           `json:"LOGGING_ENV" yaml:"LOGGING_ENV"`
	MediaURL              string           `json:"MEDIA_URL" yaml:"MEDIA_URL"`
	PlatformName          string           `json:"PLATFORM_NAME" yaml:"PLATFORM_NAME"`
	SegmentIOKey          string           `json:"SEGMENT_IO_KEY" yaml:"SEGMENT_IO_KEY"`
	ServerEmail           string           `json:"SERVER_EMAIL" yaml:"SERVER_EMAIL"`
	SiteName              string           `json:"SITE_NAME" yaml:"SITE_NAME"`
	StaticRootBase        string           `json:"STATIC_ROOT_BASE" yaml:"STATIC_ROOT_BASE"`
	StaticURLBase         string           `json:"STATIC_URL_BASE" yaml:"STATIC_URL_BASE"`
	SyslogServer          string           `json:"SYSLOG_SERVER" yaml:"SYSLOG_SERVER"`
	TechSupportEmail      string           `json:"TECH_SUPPORT_EMAIL" yaml:"TECH_SUPPORT_EMAIL"`
	TimeZone              string           `json:"TIME_ZONE" yaml:"TIME_ZONE"`
	WikiEnabled           bool             `json:"WIKI_ENABLED" yaml:"WIKI_ENABLED"`
}
