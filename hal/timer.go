package hal

// Timer represents a scheduled callback, sorted into a singly linked list
// by wake time. This is the cooperative scheduler standing in for the
// five-priority-task harness the motion tick would otherwise run under.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SFDone       = 0
	SFReschedule = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// ScheduleTimer inserts a timer into the schedule in wake-time order.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	insertTimer(t)
}

func insertTimer(t *Timer) {
	if timerList == nil || t.WakeTime < timerList.WakeTime {
		t.Next = timerList
		timerList = t
		return
	}
	current := timerList
	for current.Next != nil && current.Next.WakeTime < t.WakeTime {
		current = current.Next
	}
	t.Next = current.Next
	current.Next = t
}

// TimerDispatch runs every due timer's handler, rescheduling those that ask
// for it. Each fire is recorded as an EvtTimerFire timing event before the
// handler runs, so a pulse generator's edge landing late against its own
// WakeTime shows up in hal.DumpTimingRing() instead of only being
// inferable from a missed or jittered step afterward.
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && timerList.WakeTime <= currentTime {
		timer := timerList
		timerList = timer.Next
		timer.Next = nil

		RecordTiming(EvtTimerFire, currentTime, timer.WakeTime, 0)

		result := timer.Handler(timer)
		if result == SFReschedule {
			insertTimer(timer)
		}
	}
}
