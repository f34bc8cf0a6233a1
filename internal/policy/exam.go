package policy

// ExamProfile arms every protection: the device is pinned to the protected
// app, capture is blocked and every switch away is reported.
type ExamProfile struct{}

// NewExamProfile creates the exam profile.
func NewExamProfile() *ExamProfile {
	return &ExamProfile{}
}

func (p *ExamProfile) ID() string {
	return "exam"
}

func (p *ExamProfile) Name() string {
	return "Exam"
}

func (p *ExamProfile) Pinning() bool            { return true }
func (p *ExamProfile) ScreenshotBlocking() bool { return true }
func (p *ExamProfile) RecordingDetection() bool { return true }
func (p *ExamProfile) Monitoring() bool         { return true }

// Ensure ExamProfile implements ProtectionProfile.
var _ ProtectionProfile = (*ExamProfile)(nil)
