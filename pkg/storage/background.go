package storage

import "time"

// StartBackgroundWorkers starts the periodic auto-save worker, if enabled.
func (e *Engine) StartBackgroundWorkers() {
	if !e.autoSave {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := e.Save(); err != nil {
					e.logger.Error().Err(err).Str("database", e.name).Msg("background save failed")
				}
			case <-e.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops the auto-save worker and waits for it to exit.
func (e *Engine) StopBackgroundWorkers() {
	select {
	case <-e.stopChan:
		// already stopped
	default:
		close(e.stopChan)
	}
	e.wg.Wait()
}
