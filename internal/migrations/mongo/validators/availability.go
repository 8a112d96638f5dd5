package validators

import (
	"cleanbook/pkg/calendar"

	"go.mongodb.org/mongo-driver/bson"
)

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"date", "time_slot", "team_number", "is_available"},
		"additionalProperties": true,
		"properties": bson.M{
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},
			"time_slot": bson.M{
				"bsonType": "string",
				"enum":     calendar.Slots,
			},
			"team_number": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"is_available":   bson.M{"bsonType": "bool"},
			"booking_id":     bson.M{"bsonType": "string"},
			"blocked_reason": bson.M{"bsonType": "string", "maxLength": 200},
		},
	},
}
