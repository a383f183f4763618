// Package service contains the application use cases. It composes the
// authorization gate in internal/authz with the repositories defined in
// internal/store.
//
// Key components:
//
// 1. TaskService:
//   - List, Get, Create, Update and Delete on behalf of an explicit caller
//   - Every single-task operation resolves the task first and then asks the gate
//   - Successful mutations are published as events.TaskEvent values
//
// 2. UserService:
//   - Registration with bcrypt hashing and login by email and password
//   - Account deletion, which removes the user's tasks in the same transaction
//
// 3. Error Handling:
//   - Store errors are translated into ErrTaskNotFound, ErrUserNotFound or *StoreFailure
//   - Validation failures surface as *domain.ValidationError
//   - Gate denials surface as authz.ErrNotAuthorized
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
