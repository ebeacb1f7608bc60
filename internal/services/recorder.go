package services

// Recorder receives domain counters. *metrics.Metrics implements it.
type Recorder interface {
	CreaturesBorn(n int)
	CreaturesRetired(n int)
	ContainersCreated(n int)
	ContainerMerged()
	TransactionRecorded(kind string)
}

type nopRecorder struct{}

func (nopRecorder) CreaturesBorn(int)          {}
func (nopRecorder) CreaturesRetired(int)       {}
func (nopRecorder) ContainersCreated(int)      {}
func (nopRecorder) ContainerMerged()           {}
func (nopRecorder) TransactionRecorded(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
