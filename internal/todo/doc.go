// Package todo holds the task list state and the transitions that change it.
//
// A list is an ordered sequence of tasks:
//
//	[
//	  {"id": 1, "detail": "buy milk", "status": false},
//	  {"id": 2, "detail": "call mom", "status": true}
//	]
//
// # Transitions
//
// Reduce is a pure function over State. The accepted actions form a closed set:
//
//   - SetDraftText: replace the draft text
//   - Commit: append the draft as a new task, or write it back to the task under edit
//   - Delete: remove a task by id
//   - ToggleStatus: flip a task's done flag
//   - BeginEdit: load a task into the draft and point the edit cursor at it
//   - CancelEdit: drop the draft and return to adding
//
// Unknown ids are no-ops. Committing a blank draft is a no-op.
//
// # IDs
//
// IDs come from a counter seeded with the highest id in the loaded list, so an
// id is never reused within a process, even after the task holding it is deleted.
//
// # Persistence
//
// Store wraps a State and a Storage. The list is loaded once and flushed after
// every action that changes it. Repository is the Storage used in practice: it
// keeps the encoded list under one key of a storage.KV and validates what it
// reads against an embedded JSON Schema.
package todo
