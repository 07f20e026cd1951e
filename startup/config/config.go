package config

import "os"

type Config struct {
	Port          string
	MongoHost     string
	MongoPort     string
	RedisHost     string
	RedisPort     string
	CassandraHost string
	HDFSUri       string
	JaegerAddress string
}

func NewConfig() *Config {
	return &Config{
		Port:          os.Getenv("BOOKING_SERVICE_PORT"),
		MongoHost:     os.Getenv("MONGO_DB_HOST"),
		MongoPort:     os.Getenv("MONGO_DB_PORT"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     os.Getenv("REDIS_PORT"),
		CassandraHost: os.Getenv("CASSANDRA_DB_HOST"),
		HDFSUri:       os.Getenv("HDFS_URI"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
	}
}
