package config

// Config 配置主体
type Config struct {
	Server              ServerConfig        `mapstructure:"server"`
	DB                  DBConfig            `mapstructure:"database"`
	Redis               RedisConfig         `mapstructure:"redis"`
	Mongo               MongoConfig         `mapstructure:"mongo"`
	Kafka               KafkaConfig         `mapstructure:"kafka"`
	KafkaNotifyConsumer KafkaNotifyConsumer `mapstructure:"kafka_notify_consumer"`
	Logstash            LogstashConfig      `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig 通知收件箱所在的 Mongo 库
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Brokers    []string       `mapstructure:"brokers"`
	EventTopic string         `mapstructure:"event_topic"`
	Sasl       SaslConfig     `mapstructure:"sasl"`
	Consumer   ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaNotifyConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// LogstashConfig 远程日志上报
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
