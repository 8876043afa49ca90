package pose

// Detected is the detection gate: it holds iff every joint id of s except
// s.Background is present in js and is not the sentinel. It excludes frames
// where the upstream tracker degenerated to all-zero output.
func Detected(js Joints, s *Skeleton) bool {
	for i := range s.Parts {
		id := JointID(i)
		if id == s.Background {
			continue
		}
		if js.Get(id).IsSentinel() {
			return false
		}
	}
	return true
}
