// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

// RepositoryConfig represents the configuration for repository creation
type RepositoryConfig struct {
	DatabaseType string
	DatabaseName string

	// MongoDB specific
	MongoConfig *MongoDBConfig
}

// MongoDBConfig represents MongoDB specific configuration.
// URI takes precedence over the discrete connection fields when set.
type MongoDBConfig struct {
	URI                    string
	Host                   string
	Port                   int
	Username               string
	Password               string
	AuthDatabase           string
	ReplicaSet             string
	SSL                    bool
	ConnectTimeout         int
	MaxPoolSize            int
	ServerSelectionTimeout int
}
