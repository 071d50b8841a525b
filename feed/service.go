package feed

//
// Service is a long-running part of the quote watcher, such as the poller or the CSV writer. Both
// calls return a channel that receives true once the transition has completed.
//
type Service interface {

	//
	// Start begins polling or accepting writes. A started service must be stopped before it can be
	// started again.
	//
	Start() (<-chan bool, error)

	//
	// Stop releases whatever the service holds (in-flight requests, open files). Stopping a service
	// that is not running fails.
	//
	Stop() (<-chan bool, error)
}
