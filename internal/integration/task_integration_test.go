package integration

import (
	"context"
	"errors"
	"testing"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"
)

func TestTask_CompletePaysOnce(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	task := &domain.Task{
		Title:         "Join Telegram",
		Description:   "Join the channel",
		Link:          "https://t.me/example",
		RewardCoin:    100,
		RewardDiamond: 5,
		RewardSpeed:   0.05,
		IsActive:      true,
	}
	if err := e.taskDB.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	u := e.register(t, nil)
	before, err := e.users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if _, err := e.tasks.Complete(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	after, err := e.users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := after.Coin - before.Coin; got != task.RewardCoin {
		t.Fatalf("coin delta = %v, want %v", got, task.RewardCoin)
	}
	if got := after.Diamond - before.Diamond; got != task.RewardDiamond {
		t.Fatalf("diamond delta = %v, want %v", got, task.RewardDiamond)
	}
	if got := after.MiningSpeed - before.MiningSpeed; got != task.RewardSpeed {
		t.Fatalf("speed delta = %v, want %v", got, task.RewardSpeed)
	}
	if after.TasksCompleted != before.TasksCompleted+1 {
		t.Fatalf("tasks_completed = %d, want %d", after.TasksCompleted, before.TasksCompleted+1)
	}

	// Second completion is rejected and pays nothing.
	if _, err := e.tasks.Complete(ctx, u.ID, task.ID); !errors.Is(err, service.ErrTaskAlreadyCompleted) {
		t.Fatalf("second complete = %v, want ErrTaskAlreadyCompleted", err)
	}
	again, _ := e.users.GetByID(ctx, u.ID)
	if again.Coin != after.Coin {
		t.Fatalf("repeat completion paid again: %v -> %v", after.Coin, again.Coin)
	}

	logs, err := e.balance.Logs(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	var taskLogs int
	for _, l := range logs {
		if l.Description == "Task: Join Telegram" {
			taskLogs++
		}
	}
	if taskLogs != 2 {
		// One entry per rewarded currency (coin, diamond); speed is not logged.
		t.Fatalf("task log entries = %d, want 2", taskLogs)
	}
}

func TestTask_CompletionIsPerUser(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	task := &domain.Task{Title: "Share a post", RewardCoin: 10, IsActive: true}
	if err := e.taskDB.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	first := e.register(t, nil)
	second := e.register(t, nil)

	if _, err := e.tasks.Complete(ctx, first.ID, task.ID); err != nil {
		t.Fatalf("first user complete: %v", err)
	}
	if _, err := e.tasks.Complete(ctx, second.ID, task.ID); err != nil {
		t.Fatalf("second user complete after first: %v", err)
	}
}

func TestTask_InactiveNotCompletable(t *testing.T) {
	e := newEngine(testPool(t))
	ctx := context.Background()

	task := &domain.Task{Title: "Retired task", RewardCoin: 10, IsActive: true}
	if err := e.taskDB.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := e.taskDB.SetActive(ctx, task.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	u := e.register(t, nil)
	if _, err := e.tasks.Complete(ctx, u.ID, task.ID); !errors.Is(err, repository.ErrTaskNotFound) {
		t.Fatalf("complete inactive = %v, want ErrTaskNotFound", err)
	}

	// Inactive tasks disappear from the user listing.
	list, err := e.tasks.ListForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range list {
		if item.Task.ID == task.ID {
			t.Fatal("inactive task still listed")
		}
	}
}
