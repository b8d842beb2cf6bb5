package transport

// AddTaskRequest is the payload for creating a task.
type AddTaskRequest struct {
	Text string `json:"text"`
}

// RemoveTasksRequest carries the batch of task IDs to delete in one call.
type RemoveTasksRequest struct {
	IDs []string `json:"ids"`
}

// RemoveTasksResponse reports how many tasks the batch actually removed.
type RemoveTasksResponse struct {
	Removed int `json:"removed"`
}
