package policy

// PracticeProfile leaves navigation free but blocks capture and reports
// switches away from the protected app.
type PracticeProfile struct{}

// NewPracticeProfile creates the practice profile.
func NewPracticeProfile() *PracticeProfile {
	return &PracticeProfile{}
}

func (p *PracticeProfile) ID() string {
	return "practice"
}

func (p *PracticeProfile) Name() string {
	return "Practice"
}

// Pinning is off; practice sessions may leave the app.
func (p *PracticeProfile) Pinning() bool { return false }

func (p *PracticeProfile) ScreenshotBlocking() bool { return true }
func (p *PracticeProfile) RecordingDetection() bool { return false }
func (p *PracticeProfile) Monitoring() bool         { return true }

// Ensure PracticeProfile implements ProtectionProfile.
var _ ProtectionProfile = (*PracticeProfile)(nil)
