package debugger

import "sync"

// StatusManager 记录调试会话的生命周期状态
// 引擎本身是单线程的，这里保留读写锁是为了约束将来引入异步IO时的单写者纪律
type StatusManager struct {
	lock   sync.RWMutex
	status Status
}

func NewStatusManager() *StatusManager {
	return &StatusManager{
		status: Birth,
	}
}

func (s *StatusManager) Set(status Status) {
	defer s.lock.Unlock()
	s.lock.Lock()
	// Terminated是终态
	if s.status == Terminated {
		return
	}
	s.status = status
}

func (s *StatusManager) Get() Status {
	defer s.lock.RUnlock()
	s.lock.RLock()
	return s.status
}

func (s *StatusManager) Is(statusList ...Status) bool {
	defer s.lock.RUnlock()
	s.lock.RLock()
	for _, status := range statusList {
		if s.status == status {
			return true
		}
	}
	return false
}
