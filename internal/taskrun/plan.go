package taskrun

// ResolveExecutionPlan returns the tasks to execute for the requested name:
// prerequisites first, in declared order, each task included at most once
// even when several tasks share a prerequisite.
func (registry *Registry) ResolveExecutionPlan(taskName string) ([]Task, error) {
	requestedTask, lookupError := registry.Lookup(taskName)
	if lookupError != nil {
		return nil, lookupError
	}

	plan := make([]Task, 0, len(registry.declaredName))
	visitedTasks := make(map[string]struct{}, len(registry.declaredName))
	inProgressTasks := make(map[string]struct{}, len(registry.declaredName))

	var visit func(task Task) error
	visit = func(task Task) error {
		if _, alreadyVisited := visitedTasks[task.Name]; alreadyVisited {
			return nil
		}
		if _, inProgress := inProgressTasks[task.Name]; inProgress {
			return DependencyCycleError{TaskName: task.Name}
		}
		inProgressTasks[task.Name] = struct{}{}

		for _, requirementName := range task.Requires {
			requiredTask, requirementError := registry.Lookup(requirementName)
			if requirementError != nil {
				return requirementError
			}
			if visitError := visit(requiredTask); visitError != nil {
				return visitError
			}
		}

		delete(inProgressTasks, task.Name)
		visitedTasks[task.Name] = struct{}{}
		plan = append(plan, task)
		return nil
	}

	if visitError := visit(requestedTask); visitError != nil {
		return nil, visitError
	}

	return plan, nil
}
