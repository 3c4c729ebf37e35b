package outbox

const recordImportedSchema = `{
  "type": "object",
  "title": "RecordImported",
  "properties": {
    "record_id": {"type": "string"},
    "user_id": {"type": "string"},
    "activity_type": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "duration_min": {"type": "integer"},
    "steps": {"type": "integer"},
    "calories": {"type": "integer"},
    "source": {"type": "string"}
  },
  "required": ["record_id", "user_id", "activity_type", "date", "duration_min", "source"],
  "additionalProperties": false
}`
