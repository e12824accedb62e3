package proximity

import "golang.org/x/sync/errgroup"

// task splits data in workersCount chunks processed concurrently,
// and returns the first error encountered.
func task[T any](workersCount int, data []T, fn func(data T) error) error {
	dataSize := len(data)
	if dataSize == 0 {
		return nil
	}
	workersCount = max(1, min(workersCount, dataSize))
	if workersCount == 1 {
		for _, d := range data {
			if err := fn(d); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(data[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
