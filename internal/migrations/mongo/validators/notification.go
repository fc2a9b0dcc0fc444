package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"date",
			"time",
			"patient_name",
			"consultation_type",
			"patient_message",
			"doctor_summary",
			"contact_link",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "string",
			},

			"time": bson.M{
				"bsonType": "string",
			},

			"patient_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"consultation_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"video",
					"in-person",
				},
			},

			"patient_message": bson.M{
				"bsonType": "string",
			},

			"doctor_summary": bson.M{
				"bsonType": "string",
			},

			// Either a wa.me link or the "#" placeholder.
			"contact_link": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
