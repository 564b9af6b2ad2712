package store

// sampleSchema describes the persisted Sample record. Every load is
// validated against it before unmarshalling, so hand-edited or
// truncated files fail with a schema error instead of a zero-valued
// Sample.
const sampleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["testSubjectSize", "workloadConfig", "maxConcurrency", "measurements"],
  "properties": {
    "testSubjectSize": {"type": "integer", "minimum": 1},
    "workloadConfig": {"type": "string", "minLength": 1},
    "maxConcurrency": {"type": "integer", "minimum": 1},
    "partial": {"type": "boolean"},
    "measurements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["concurrency", "durationMs", "passed", "failed", "totalTests"],
        "properties": {
          "concurrency": {"type": "integer", "minimum": 1},
          "durationMs": {"type": "number", "minimum": 0},
          "passed": {"type": "integer", "minimum": 0},
          "failed": {"type": "integer", "minimum": 0},
          "totalTests": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`
