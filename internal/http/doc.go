// Package http provides HTTP handlers and middleware for the scheduler API.
//
// The router exposes the following endpoints:
//   - GET /calendar/day?date=YYYY-MM-DD[&include_cancelled=true]: admin day grid with
//     one column per room. Response: {"date","slots","columns"} where every column
//     carries its placed entries, the covered slot indexes in "skip" and the sessions
//     whose anchor slot was lost in "hidden". The date defaults to today.
//   - GET /calendar/week?date=YYYY-MM-DD&teacher_id=|class_id=: weekly grid of one
//     teacher or one class, Monday through Sunday of the week containing date.
//   - GET /sessions, POST /sessions: paged listing (page, page_size, from, to,
//     room_id, teacher_id, class_id, include_cancelled) and creation of a single
//     session. Creation answers 409 with error_code ROOM_CONFLICT and the
//     conflicting sessions when the room is taken; teacher overlaps come back as
//     warnings.
//   - POST /sessions/conflicts: reports conflicts for a candidate without saving it.
//   - POST /sessions/recurring/preview, POST /sessions/recurring: expand a weekly
//     pattern and report per occurrence conflicts; the second form persists every
//     occurrence or none of them.
//   - GET /sessions/{id}, PUT /sessions/{id}, DELETE /sessions/{id},
//     POST /sessions/{id}/cancel: single session management.
//   - GET /rooms, POST /rooms, GET /teachers, POST /teachers, GET /classes,
//     POST /classes: directory endpoints that supply calendar labels.
//
// Request bodies and query keys are accepted in snake_case or camelCase.
// Responses always use snake_case. Error messages are Japanese.
package http
