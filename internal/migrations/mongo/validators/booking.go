package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"date",
			"time",
			"patient_name",
			"consultation_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^(0[1-9]|1[0-2]):[0-5]\d (AM|PM)$`,
			},

			"patient_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"patient_phone": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"patient_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"consultation_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"video",
					"in-person",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
