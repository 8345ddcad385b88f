package fakes

type FakeDetector struct {
	GetOSDictCallCount int
	GetOSDictOSes      map[string]string
	GetOSDictErr       error
}

func (d *FakeDetector) GetOSDict() (map[string]string, error) {
	d.GetOSDictCallCount++
	return d.GetOSDictOSes, d.GetOSDictErr
}
