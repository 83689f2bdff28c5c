package orchestrators

import (
	"context"
	"errors"
	"time"

	adminStore "elearning/internal/adapters/storage/admin"
	enrollmentStore "elearning/internal/adapters/storage/enrollment"
	outboxStore "elearning/internal/adapters/storage/outbox"
	"elearning/internal/domain/admin"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
	"elearning/internal/domain/contact"
	"elearning/internal/domain/course"
	"elearning/internal/domain/outbox"
	"elearning/internal/domain/user"
	"elearning/internal/domain/video"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

var errDiskFull = errors.New("disk I/O error")

// --- courses ---

type mockCourseStore struct {
	courses   map[int64]course.Course
	nextID    int64
	updateErr error
	createErr error
}

func newMockCourseStore(cs ...course.Course) *mockCourseStore {
	m := &mockCourseStore{courses: make(map[int64]course.Course), nextID: 100}
	for _, c := range cs {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseStore) GetByID(_ context.Context, id int64) (course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return course.Course{}, apperr.NotFound("course", id)
	}
	return c, nil
}

func (m *mockCourseStore) Update(_ context.Context, c course.Course) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.courses[c.ID] = c
	return nil
}

func (m *mockCourseStore) Create(_ context.Context, c course.Course) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	m.courses[c.ID] = c
	return c.ID, nil
}

// --- classes ---

type mockClassStore struct {
	classes   map[int64]class.Class
	courses   *mockCourseStore
	nextID    int64
	loadErr   error
	updateErr error
}

func newMockClassStore(courses *mockCourseStore, cs ...class.Class) *mockClassStore {
	m := &mockClassStore{classes: make(map[int64]class.Class), courses: courses, nextID: 200}
	for _, c := range cs {
		m.classes[c.ID] = c
	}
	return m
}

func (m *mockClassStore) GetDetail(ctx context.Context, id int64) (class.Detail, error) {
	if m.loadErr != nil {
		return class.Detail{}, m.loadErr
	}
	c, ok := m.classes[id]
	if !ok {
		return class.Detail{}, apperr.NotFound("class", id)
	}
	crs, _ := m.courses.GetByID(ctx, c.CourseID)
	return class.Detail{Class: c, CourseName: crs.Name}, nil
}

func (m *mockClassStore) Create(_ context.Context, c class.Class) (int64, error) {
	m.nextID++
	c.ID = m.nextID
	m.classes[c.ID] = c
	return c.ID, nil
}

func (m *mockClassStore) Update(_ context.Context, c class.Class) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.classes[c.ID] = c
	return nil
}

// --- videos ---

type mockVideoStore struct {
	videos    map[int64]video.Video
	nextID    int64
	createErr error
}

func newMockVideoStore(vs ...video.Video) *mockVideoStore {
	m := &mockVideoStore{videos: make(map[int64]video.Video), nextID: 300}
	for _, v := range vs {
		m.videos[v.ID] = v
	}
	return m
}

func (m *mockVideoStore) GetInCourse(_ context.Context, courseID, videoID int64) (video.Video, error) {
	v, ok := m.videos[videoID]
	if !ok || v.CourseID != courseID {
		return video.Video{}, apperr.NotFound("video", videoID)
	}
	return v, nil
}

func (m *mockVideoStore) ListByCourse(_ context.Context, courseID int64) ([]video.Video, error) {
	out := []video.Video{}
	for id := int64(0); id <= m.nextID; id++ {
		if v, ok := m.videos[id]; ok && v.CourseID == courseID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVideoStore) Create(_ context.Context, v video.Video) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	v.ID = m.nextID
	m.videos[v.ID] = v
	return v.ID, nil
}

func (m *mockVideoStore) UpdateInCourse(_ context.Context, v video.Video) (bool, error) {
	cur, ok := m.videos[v.ID]
	if !ok || cur.CourseID != v.CourseID {
		return false, nil
	}
	m.videos[v.ID] = v
	return true, nil
}

// --- enrollments ---

type mockEnrollmentStore struct {
	users     map[string]int64
	pairs     map[[2]int64]bool
	byCourse  map[int64]map[string]bool
	nextID    int64
	enrollErr error
	calls     int
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{
		users:    make(map[string]int64),
		pairs:    make(map[[2]int64]bool),
		byCourse: make(map[int64]map[string]bool),
	}
}

// Enroll mirrors the transactional store: nothing is kept when the pair already exists.
func (m *mockEnrollmentStore) Enroll(_ context.Context, classID int64, u user.User, _ time.Time) (enrollmentStore.Outcome, error) {
	m.calls++
	if m.enrollErr != nil {
		return enrollmentStore.Outcome{}, m.enrollErr
	}
	userID, existed := m.users[u.Email]
	if !existed {
		userID = int64(len(m.users) + 1)
	}
	if m.pairs[[2]int64{userID, classID}] {
		return enrollmentStore.Outcome{}, apperr.ErrDuplicateEnrollment
	}
	m.users[u.Email] = userID
	m.pairs[[2]int64{userID, classID}] = true
	m.nextID++
	return enrollmentStore.Outcome{EnrollmentID: m.nextID, UserID: userID, UserCreated: !existed}, nil
}

func (m *mockEnrollmentStore) IsEnrolledInCourse(_ context.Context, courseID int64, email string) (bool, error) {
	if m.enrollErr != nil {
		return false, m.enrollErr
	}
	return m.byCourse[courseID][email], nil
}

func (m *mockEnrollmentStore) addCourseEnrollment(courseID int64, email string) {
	if m.byCourse[courseID] == nil {
		m.byCourse[courseID] = make(map[string]bool)
	}
	m.byCourse[courseID][email] = true
}

// --- outbox ---

type mockOutboxStore struct {
	entries map[string]outbox.Entry
	order   []string
	saveErr error
	saves   int
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{entries: make(map[string]outbox.Entry)}
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return outbox.Entry{}, outboxStore.ErrNotFound
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if _, ok := m.entries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockOutboxStore) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range m.entries {
		counts[e.Status]++
	}
	return counts, nil
}

// --- admins ---

type mockAdminStore struct {
	admins  map[string]admin.Admin
	saves   int
	loadErr error
}

func newMockAdminStore(as ...admin.Admin) *mockAdminStore {
	m := &mockAdminStore{admins: make(map[string]admin.Admin)}
	for _, a := range as {
		m.admins[a.Username] = a
	}
	return m
}

func (m *mockAdminStore) GetByUsername(_ context.Context, username string) (admin.Admin, error) {
	if m.loadErr != nil {
		return admin.Admin{}, m.loadErr
	}
	a, ok := m.admins[username]
	if !ok {
		return admin.Admin{}, adminStore.ErrNotFound
	}
	return a, nil
}

func (m *mockAdminStore) SaveLoginState(_ context.Context, a admin.Admin) error {
	m.saves++
	cur := m.admins[a.Username]
	cur.FailedLogins, cur.LockedUntil = a.FailedLogins, a.LockedUntil
	m.admins[a.Username] = cur
	return nil
}

func (m *mockAdminStore) Count(_ context.Context) (int, error) {
	return len(m.admins), nil
}

func (m *mockAdminStore) Create(_ context.Context, a admin.Admin) (int64, error) {
	a.ID = int64(len(m.admins) + 1)
	m.admins[a.Username] = a
	return a.ID, nil
}

// --- contacts ---

type mockContactStore struct {
	messages []contact.Message
	err      error
}

func (m *mockContactStore) Create(_ context.Context, msg contact.Message) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.messages = append(m.messages, msg)
	return int64(len(m.messages)), nil
}
