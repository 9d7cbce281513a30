package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Registration Portal Client",
        "description": "Local API over the enrollment sync engine: live catalog, bulk enroll/unenroll and timetable.",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Opened course catalog with live seat counts"},
        {"name": "Selections", "description": "Per-page pending course selection"},
        {"name": "Enrollments", "description": "Bulk enroll and unenroll"},
        {"name": "Timetable", "description": "Weekly grid of enrolled courses"},
        {"name": "Student", "description": "Signed-in student profile"},
        {"name": "Metrics", "description": "Sync engine counters"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List opened courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string", "description": "Case-insensitive course code prefix"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseListEnvelope"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/registered": {
            "get": {
                "tags": ["Courses"],
                "summary": "List enrolled courses with the credit tally",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RegisteredCoursesResponse"}},
                    "503": {"description": "Catalog not loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/registered/refresh": {
            "post": {
                "tags": ["Courses"],
                "summary": "Reload the enrolled set from the portal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrolledRefreshResponse"}},
                    "409": {"description": "Operation already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Portal unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/registered/export": {
            "get": {
                "tags": ["Courses"],
                "summary": "Download enrolled courses",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Invalid format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/selections/{page}": {
            "get": {
                "tags": ["Selections"],
                "summary": "Current selection of a page",
                "parameters": [
                    {"name": "page", "in": "path", "required": true, "type": "string", "enum": ["opened", "registered"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SelectionView"}},
                    "404": {"description": "Unknown page", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Selections"],
                "summary": "Check or uncheck courses",
                "parameters": [
                    {"name": "page", "in": "path", "required": true, "type": "string", "enum": ["opened", "registered"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectionUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SelectionView"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Selections"],
                "summary": "Clear a page selection",
                "parameters": [
                    {"name": "page", "in": "path", "required": true, "type": "string", "enum": ["opened", "registered"]}
                ],
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/enrollments/enroll": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll the opened-page selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OperationResultResponse"}},
                    "400": {"description": "Rejected by the portal", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Operation already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Empty selection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Portal unreachable or malformed reply", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/unenroll": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Unenroll the registered-page selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OperationResultResponse"}},
                    "400": {"description": "Rejected by the portal", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Operation already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Empty selection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Portal unreachable or malformed reply", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/results/{page}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Take the last undisplayed result of a page",
                "parameters": [
                    {"name": "page", "in": "path", "required": true, "type": "string", "enum": ["opened", "registered"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OperationResultResponse"}},
                    "404": {"description": "No pending result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly timetable of enrolled courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableGrid"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download the timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Invalid format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student": {
            "get": {
                "tags": ["Student"],
                "summary": "Signed-in student profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Credential rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Sync engine counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SyncMetrics"}}
                }
            }
        }
    },
    "definitions": {
        "Subject": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "string"},
                "subjectName": {"type": "string"},
                "theoryCreditNumber": {"type": "integer"},
                "practiceCreditNumber": {"type": "integer"}
            }
        },
        "CourseRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "courseId": {"type": "string"},
                "subject": {"$ref": "#/definitions/Subject"},
                "dayOfWeek": {"type": "integer", "minimum": 2, "maximum": 7},
                "beginShift": {"type": "integer", "minimum": 1, "maximum": 10},
                "endShift": {"type": "integer", "minimum": 1, "maximum": 10},
                "totalNumber": {"type": "integer"},
                "registeredNumber": {"type": "integer"},
                "language": {"type": "string"},
                "lecturerName": {"type": "string"},
                "room": {"type": "string"},
                "beginDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"},
                "weekDistance": {"type": "integer"},
                "mainCourseId": {"type": "string"},
                "semesterId": {"type": "integer"}
            }
        },
        "CourseListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/CourseRecord"}},
                "meta": {"type": "object"}
            }
        },
        "RegistrationSummary": {
            "type": "object",
            "properties": {
                "numberOfCourses": {"type": "integer"},
                "creditNumber": {"type": "integer"}
            }
        },
        "RegisteredCoursesResponse": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRecord"}},
                "summary": {"$ref": "#/definitions/RegistrationSummary"}
            }
        },
        "EnrolledRefreshResponse": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "SelectionUpdateRequest": {
            "type": "object",
            "required": ["ids", "checked"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}},
                "checked": {"type": "boolean"}
            }
        },
        "SelectionView": {
            "type": "object",
            "properties": {
                "page": {"type": "string"},
                "ids": {"type": "array", "items": {"type": "integer"}},
                "codes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ItemOutcome": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "kind": {"type": "string", "enum": ["success", "failure"]},
                "reason": {"type": "string"}
            }
        },
        "OperationResultResponse": {
            "type": "object",
            "properties": {
                "operationId": {"type": "string"},
                "kind": {"type": "string", "enum": ["enroll", "unenroll"]},
                "succeeded": {"type": "array", "items": {"type": "string"}},
                "failed": {"type": "array", "items": {"$ref": "#/definitions/ItemOutcome"}},
                "items": {"type": "array", "items": {"$ref": "#/definitions/ItemOutcome"}}
            }
        },
        "TimetableCell": {
            "type": "object",
            "properties": {
                "course": {"$ref": "#/definitions/CourseRecord"},
                "span": {"type": "integer"},
                "covered": {"type": "boolean"}
            }
        },
        "TimetableRow": {
            "type": "object",
            "properties": {
                "shift": {"type": "integer"},
                "label": {"type": "string"},
                "cells": {"type": "array", "items": {"$ref": "#/definitions/TimetableCell"}}
            }
        },
        "TimetableGrid": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "integer"}},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/TimetableRow"}},
                "unplaced": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "SyncMetrics": {
            "type": "object",
            "properties": {
                "requestsTotal": {"type": "integer"},
                "averageRequestDurationMs": {"type": "number"},
                "deltasApplied": {"type": "integer"},
                "deltasDropped": {"type": "integer"},
                "streamErrors": {"type": "integer"},
                "bulkOperations": {"type": "integer"},
                "catalogSize": {"type": "integer"},
                "goroutines": {"type": "integer"},
                "generatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
