package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to run background work on a
// bounded worker pool.
// Example usage:
//
//	scheduler := NewScheduler(Options{WorkerCount: 5})
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshFeedTask(session))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
