// Package mocks provides centralized mock implementations for testing.
//
// The store mocks embed testify's mock.Mock; the service mocks do too, so
// handler tests can set expectations per call. EventEmitter and
// MockPasswordHasher are plain recording fakes.
//
// Usage:
//
//	tasks := new(mocks.TaskStore)
//	tasks.On("FindByID", mock.Anything, id).Return(task, nil)
//	svc, _ := service.NewTaskService(tasks, &mocks.EventEmitter{}, logger)
package mocks
