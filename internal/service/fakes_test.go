package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/yearbook-api/internal/models"
)

type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]*models.User
	auditLogs []*models.AuditLog
	nextID    int
	createErr error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUsers) CreateStudents(ctx context.Context, users []*models.User) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	var created []*models.User
	for _, u := range users {
		taken := false
		for _, existing := range f.users {
			if existing.Email == u.Email {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		f.nextID++
		u.ID = fmt.Sprintf("student-%d", f.nextID)
		f.users[u.ID] = u
		created = append(created, u)
	}
	return created, nil
}

func (f *fakeUsers) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.UserType == models.UserTypeStudent && (filter.CollegeID == "" || u.College() == filter.CollegeID) {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (f *fakeUsers) ListByCollege(ctx context.Context, collegeID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.UserType == models.UserTypeStudent && u.College() == collegeID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsers) DeleteStudent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.UserType != models.UserTypeStudent {
		return sql.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) UpdateStudentData(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUsers) UpdateCompletion(ctx context.Context, id string, completion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.ProfileCompletion = completion
	}
	return nil
}

func (f *fakeUsers) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditLogs = append(f.auditLogs, log)
	return nil
}

type fakeColleges struct {
	colleges map[string]*models.College
	listHits int
	updated  int
}

func newFakeColleges(colleges ...*models.College) *fakeColleges {
	f := &fakeColleges{colleges: map[string]*models.College{}}
	for _, c := range colleges {
		f.colleges[c.ID] = c
	}
	return f
}

func (f *fakeColleges) List(ctx context.Context) ([]models.College, error) {
	f.listHits++
	var out []models.College
	for _, c := range f.colleges {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeColleges) FindByID(ctx context.Context, id string) (*models.College, error) {
	c, ok := f.colleges[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeColleges) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for _, c := range f.colleges {
		if strings.EqualFold(c.Name, name) && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeColleges) Create(ctx context.Context, college *models.College) error {
	college.ID = "college-" + strings.ToLower(strings.ReplaceAll(college.Name, " ", "-"))
	clone := *college
	f.colleges[college.ID] = &clone
	return nil
}

func (f *fakeColleges) Update(ctx context.Context, college *models.College) error {
	if _, ok := f.colleges[college.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *college
	f.colleges[college.ID] = &clone
	f.updated++
	return nil
}

type fakePhotos struct {
	photos map[string]map[int]models.Photo
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{photos: map[string]map[int]models.Photo{}}
}

func (f *fakePhotos) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	var out []models.Photo
	for _, p := range f.photos[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotIndex < out[j].SlotIndex })
	return out, nil
}

func (f *fakePhotos) FindSlot(ctx context.Context, userID string, slot int) (*models.Photo, error) {
	p, ok := f.photos[userID][slot]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakePhotos) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(f.photos[userID]), nil
}

func (f *fakePhotos) Upsert(ctx context.Context, photo *models.Photo) error {
	if f.photos[photo.UserID] == nil {
		f.photos[photo.UserID] = map[int]models.Photo{}
	}
	f.photos[photo.UserID][photo.SlotIndex] = *photo
	return nil
}

type fakeTestimonials struct {
	items map[[2]string]models.Testimonial
}

func newFakeTestimonials() *fakeTestimonials {
	return &fakeTestimonials{items: map[[2]string]models.Testimonial{}}
}

func (f *fakeTestimonials) Upsert(ctx context.Context, t *models.Testimonial) error {
	f.items[[2]string{t.FromStudentID, t.ToStudentID}] = *t
	return nil
}

func (f *fakeTestimonials) Find(ctx context.Context, fromID, toID string) (*models.Testimonial, error) {
	t, ok := f.items[[2]string{fromID, toID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTestimonials) ListReceived(ctx context.Context, toID string) ([]models.Testimonial, error) {
	var out []models.Testimonial
	for key, t := range f.items {
		if key[1] == toID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonials) ListWritten(ctx context.Context, fromID string) ([]models.Testimonial, error) {
	var out []models.Testimonial
	for key, t := range f.items {
		if key[0] == fromID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonials) Delete(ctx context.Context, fromID, toID string) error {
	key := [2]string{fromID, toID}
	if _, ok := f.items[key]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, key)
	return nil
}

func strPtr(v string) *string { return &v }

func student(id, name, collegeID string) *models.User {
	return &models.User{ID: id, Email: id + "@school.edu", Name: name, UserType: models.UserTypeStudent, CollegeID: strPtr(collegeID)}
}
