package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "slug", "name", "category", "active"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "string"},
			"slug":           bson.M{"bsonType": "string", "pattern": `^[a-z0-9]+(-[a-z0-9]+)*$`},
			"name":           bson.M{"bsonType": "string", "minLength": 2, "maxLength": 120},
			"category":       bson.M{"bsonType": "string"},
			"base_price":     bson.M{"bsonType": "number", "minimum": 0},
			"price_per_sqm":  bson.M{"bsonType": "number", "minimum": 0},
			"min_price":      bson.M{"bsonType": "number", "minimum": 0},
			"duration_hours": bson.M{"bsonType": "number"},
			"features":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"active":         bson.M{"bsonType": "bool"},
			"display_order":  bson.M{"bsonType": []string{"int", "long"}},
		},
	},
}
