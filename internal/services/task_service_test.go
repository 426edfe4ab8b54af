package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamtrack/internal/models"
)

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}, nextID: 1}
}

func (f *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	task.ID = f.nextID
	f.nextID++
	task.CreatedDate = time.Now().UTC()
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	var res []models.Task
	for i := int64(1); i < f.nextID; i++ {
		if t, ok := f.tasks[i]; ok {
			res = append(res, *t)
		}
	}
	return res, nil
}

func (f *fakeTaskRepo) FindByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	var res []models.Task
	for i := int64(1); i < f.nextID; i++ {
		if t, ok := f.tasks[i]; ok && t.AssignedUserID != nil && *t.AssignedUserID == userID {
			res = append(res, *t)
		}
	}
	return res, nil
}

func (f *fakeTaskRepo) FindByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	var res []models.Task
	for i := int64(1); i < f.nextID; i++ {
		if t, ok := f.tasks[i]; ok && t.ProjectID == projectID {
			res = append(res, *t)
		}
	}
	return res, nil
}

func (f *fakeTaskRepo) Filter(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	all, _ := f.FindAll(ctx)
	return all, len(all), nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) MarkCompleted(ctx context.Context, id int64, finishedAt time.Time) error {
	t := f.tasks[id]
	t.PercentComplete = 100
	t.FinishDate = &finishedAt
	return nil
}

func (f *fakeTaskRepo) CountByStatus(ctx context.Context) (int, int, int, error) {
	var pending, inProgress, completed int
	for _, t := range f.tasks {
		switch t.Status() {
		case models.TaskStatusPending:
			pending++
		case models.TaskStatusInProgress:
			inProgress++
		default:
			completed++
		}
	}
	return pending, inProgress, completed, nil
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
	nextID   int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[int64]*models.Project{}, nextID: 1}
}

func (f *fakeProjectRepo) Store(ctx context.Context, project *models.Project) error {
	project.ID = f.nextID
	f.nextID++
	project.CreatedDate = time.Now().UTC()
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var res []models.Project
	for i := int64(1); i < f.nextID; i++ {
		if p, ok := f.projects[i]; ok {
			res = append(res, *p)
		}
	}
	return res, nil
}

func (f *fakeProjectRepo) ListRefs(ctx context.Context) ([]models.ProjectRef, error) {
	all, _ := f.FindAll(ctx)
	refs := make([]models.ProjectRef, 0, len(all))
	for _, p := range all {
		refs = append(refs, models.ProjectRef{ID: p.ID, Name: p.Name})
	}
	return refs, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) Count(ctx context.Context) (int, error) {
	return len(f.projects), nil
}

type taskFixture struct {
	tasks    *fakeTaskRepo
	projects *fakeProjectRepo
	users    *fakeUserRepo
	mail     *fakeNotifier
	im       *fakeNotifier
	svc      TaskService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	fx := &taskFixture{
		tasks:    newFakeTaskRepo(),
		projects: newFakeProjectRepo(),
		users:    newFakeUserRepo(),
		mail:     &fakeNotifier{},
		im:       &fakeNotifier{},
	}
	notify := NewNotificationService(fx.users, fx.projects, fx.mail, fx.im)
	fx.svc = NewTaskService(fx.tasks, fx.projects, fx.users, notify)

	require.NoError(t, fx.users.Create(&models.User{
		ID: "pm-1", Name: "Paula", Email: "paula@example.com",
		Phone: "700100", Role: "ProjectManager", IsActive: true,
	}))
	require.NoError(t, fx.users.Create(&models.User{
		ID: "tm-1", Name: "Tom", Email: "tom@example.com",
		Role: "TeamMember", IsActive: true,
	}))
	require.NoError(t, fx.projects.Store(context.Background(), &models.Project{
		Name: "Apollo", ProjectManagerID: "pm-1",
	}))
	require.NoError(t, fx.projects.Store(context.Background(), &models.Project{
		Name: "Hermes", ProjectManagerID: "pm-1",
	}))
	return fx
}

func (fx *taskFixture) createTask(t *testing.T, projectID int64, assignee string) *models.Task {
	t.Helper()
	req := models.CreateTaskRequest{Title: "Do the thing", ProjectID: projectID}
	if assignee != "" {
		req.AssignedUserID = &assignee
	}
	task, err := fx.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return task
}

func TestTaskCreateValidatesProject(t *testing.T) {
	fx := newTaskFixture(t)
	_, err := fx.svc.Create(context.Background(), models.CreateTaskRequest{Title: "x", ProjectID: 99})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskCreateValidatesAssignee(t *testing.T) {
	fx := newTaskFixture(t)
	ghost := "nobody"
	_, err := fx.svc.Create(context.Background(), models.CreateTaskRequest{
		Title: "x", ProjectID: 1, AssignedUserID: &ghost,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTaskStatusDerivedFromPercent(t *testing.T) {
	fx := newTaskFixture(t)
	task := fx.createTask(t, 1, "tm-1")
	assert.Equal(t, models.TaskStatusPending, task.Status())

	half := 50.0
	task, err := fx.svc.Update(context.Background(), task.ID, models.TaskUpdate{PercentComplete: &half})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, task.Status())
}

func TestTaskUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	fx := newTaskFixture(t)
	task := fx.createTask(t, 1, "tm-1")

	newTitle := "Renamed"
	updated, err := fx.svc.Update(context.Background(), task.ID, models.TaskUpdate{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, task.PercentComplete, updated.PercentComplete)
	require.NotNil(t, updated.AssignedUserID)
	assert.Equal(t, "tm-1", *updated.AssignedUserID)
}

func TestTaskUpdateUnknownTask(t *testing.T) {
	fx := newTaskFixture(t)
	title := "x"
	_, err := fx.svc.Update(context.Background(), 42, models.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestGetMyTasksGroupsByProject(t *testing.T) {
	fx := newTaskFixture(t)
	fx.createTask(t, 1, "tm-1")
	fx.createTask(t, 2, "tm-1")
	fx.createTask(t, 1, "tm-1")
	fx.createTask(t, 1, "pm-1") // someone else's task

	groups, err := fx.svc.GetMyTasks(context.Background(), "tm-1")
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Apollo", groups[0].ProjectName)
	assert.Len(t, groups[0].Tasks, 2)
	assert.Equal(t, "Hermes", groups[1].ProjectName)
	assert.Len(t, groups[1].Tasks, 1)
}

func TestCompleteNotifiesProjectManager(t *testing.T) {
	fx := newTaskFixture(t)
	task := fx.createTask(t, 1, "tm-1")

	done, err := fx.svc.Complete(context.Background(), task.ID)
	require.NoError(t, err)

	assert.Equal(t, float64(100), done.PercentComplete)
	require.NotNil(t, done.FinishDate)
	assert.Equal(t, models.TaskStatusCompleted, done.Status())

	// email to the manager's address, IM to the manager's chat id
	require.Len(t, fx.mail.sent, 1)
	assert.Equal(t, "paula@example.com", fx.mail.sent[0].To)
	assert.Contains(t, fx.mail.sent[0].Body, "Tom")
	require.Len(t, fx.im.sent, 1)
	assert.Equal(t, "700100", fx.im.sent[0].To)
}

func TestCompleteUnknownTask(t *testing.T) {
	fx := newTaskFixture(t)
	_, err := fx.svc.Complete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
