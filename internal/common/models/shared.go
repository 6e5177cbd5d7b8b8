package common_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log is a single application log line persisted by the DB log writer
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Message      string             `bson:"message" json:"message"`
	Level        string             `bson:"level" json:"level"`
	LogLevelId   int                `bson:"log_level_id" json:"log_level_id"`
	Caller       string             `bson:"caller,omitempty" json:"caller,omitempty"`
	Username     string             `bson:"username,omitempty" json:"username,omitempty"`
	IpAddress    string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	ProcessId    string             `bson:"process_id,omitempty" json:"process_id,omitempty"`
	CreatedOnUtc time.Time          `bson:"created_on_utc" json:"created_on_utc"`
}
