// Package app is the composition root for huntsched.
//
// Run loads configuration and preferences, opens the log file, builds the
// Huntarr client, the instance directory and the schedule store, and then
// hands them to the TUI. It blocks until the TUI exits.
//
// # Data Flow
//
//	Run()
//	  ├─> config.Load()          server URL, timeouts, log settings
//	  ├─> logging.New()          zerolog file sink
//	  ├─> huntarr.NewClient()    HTTP client
//	  ├─> directory.New()        instance lists, no TTL
//	  ├─> schedule.NewStore()    single-writer rule store
//	  ├─> StartRefresher()       InstancesChanged -> directory refresh
//	  └─> ui.Run()               blocks
//
// # Refresh Signals
//
// Nothing polls. Any component may publish events.InstancesChanged on the
// bus; the refresher re-fetches the directory for every such signal and
// publishes events.DirectoryRefreshed with the new snapshot, which the TUI
// uses to repopulate its selectors. Save outcomes travel the same way as
// events.SaveCompleted.
//
// On exit Run waits briefly for a pending schedule save to finish.
package app
