package indices

import (
	"fmt"
	"sync"

	"atelier/account"
	"atelier/bizerror"
	"atelier/domain/drawing"
	"atelier/session"

	"github.com/sirupsen/logrus"
)

var (
	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun
)

var SyncBatchSize = 500

func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	page := 1
	for {
		drawings, err := drawing.LoadDrawingsFunc(page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices fully sync: error on retrieve drawings(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
			page++
			continue
		}

		if len(drawings) == 0 {
			logrus.Infof("indices fully sync: there are no more drawings to index")
			return nil // loop exit
		}

		if err := IndexDrawings(drawings); err != nil {
			logrus.Warnf("indices fully sync: error on index drawings(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}
