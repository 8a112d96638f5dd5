package validators

import (
	"cleanbook/pkg/calendar"

	"go.mongodb.org/mongo-driver/bson"
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"booking_number",
			"customer",
			"service_id",
			"booking_date",
			"time_slot",
			"team_number",
			"total_price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"booking_number": bson.M{
				"bsonType": "string",
				"pattern":  `^CS-[2-9A-HJ-NP-Z]{8}$`,
			},

			"customer": bson.M{
				"bsonType": "object",
				"required": []string{"first_name", "last_name", "email", "phone"},
				"properties": bson.M{
					"first_name": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
					"last_name":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
					"email":      bson.M{"bsonType": "string", "maxLength": 254},
					"phone":      bson.M{"bsonType": "string", "pattern": `^\+[1-9]\d{7,14}$`},
				},
			},

			"service_id": bson.M{
				"bsonType": "string",
			},

			"booking_date": bson.M{
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

			"base_price":  bson.M{"bsonType": "number", "minimum": 0},
			"extras_cost": bson.M{"bsonType": "number", "minimum": 0},
			"total_price": bson.M{"bsonType": "number", "minimum": 0},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"in_progress",
					"completed",
					"cancelled",
				},
			},

			"created_at":   bson.M{"bsonType": "date"},
			"updated_at":   bson.M{"bsonType": "date"},
			"cancelled_at": bson.M{"bsonType": "date"},
		},
	},
}
