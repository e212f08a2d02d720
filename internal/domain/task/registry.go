package task

import (
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Registry is the bidirectional session <-> task binding. It is not safe for
// concurrent use; the window manager's controller loop owns it.
type Registry struct {
	byTask    map[types.TaskID]id.SessionID
	bySession map[id.SessionID]types.TaskID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byTask:    make(map[types.TaskID]id.SessionID),
		bySession: make(map[id.SessionID]types.TaskID),
	}
}

// Bind associates a task with a session. Any previous binding of either side
// is dropped so the mapping stays one-to-one.
func (r *Registry) Bind(session id.SessionID, task types.TaskID) {
	if prev, ok := r.bySession[session]; ok {
		delete(r.byTask, prev)
	}
	if prev, ok := r.byTask[task]; ok {
		delete(r.bySession, prev)
	}
	r.byTask[task] = session
	r.bySession[session] = task
}

// UnbindBySession drops the session's binding, returning the task it held
func (r *Registry) UnbindBySession(session id.SessionID) (types.TaskID, bool) {
	task, ok := r.bySession[session]
	if !ok {
		return 0, false
	}
	delete(r.bySession, session)
	delete(r.byTask, task)
	return task, true
}

// UnbindByTask drops the task's binding, returning the session it belonged to
func (r *Registry) UnbindByTask(task types.TaskID) (id.SessionID, bool) {
	session, ok := r.byTask[task]
	if !ok {
		return "", false
	}
	delete(r.byTask, task)
	delete(r.bySession, session)
	return session, true
}

// LookupSessionByTask returns the session bound to task
func (r *Registry) LookupSessionByTask(task types.TaskID) (id.SessionID, bool) {
	session, ok := r.byTask[task]
	return session, ok
}

// TaskForSession returns the task bound to session
func (r *Registry) TaskForSession(session id.SessionID) (types.TaskID, bool) {
	task, ok := r.bySession[session]
	return task, ok
}

// Len returns the number of bindings
func (r *Registry) Len() int {
	return len(r.byTask)
}
