package replay

// JournalSchema is the JSON Schema for journal script validation
const JournalSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entries"],
  "additionalProperties": false,
  "properties": {
    "directory": {
      "type": "string",
      "minLength": 1,
      "description": "Output directory; overridden by the command line"
    },
    "open": {
      "type": "boolean",
      "description": "Open the document after saving"
    },
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["case", "severity"],
        "additionalProperties": false,
        "properties": {
          "case": {
            "type": "string",
            "minLength": 1
          },
          "severity": {
            "type": "string",
            "enum": ["info", "success", "warning", "error", "INFO", "SUCCESS", "WARNING", "ERROR"]
          },
          "message": {
            "type": "string"
          },
          "screenshot": {
            "type": "boolean"
          }
        }
      }
    }
  }
}`
