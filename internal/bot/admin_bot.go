package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/logger"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminBot handles admin commands via Telegram
type AdminBot struct {
	bot         *tgbotapi.BotAPI
	admin       *service.AdminService
	withdrawals *service.WithdrawalService
	balance     *service.BalanceService
	users       *repository.UserRepository
	adminIDs    []int64
	stopCh      chan struct{}
	wg          sync.WaitGroup
	log         *slog.Logger
}

// NewAdminBot creates a new admin bot
func NewAdminBot(token string, admin *service.AdminService, withdrawals *service.WithdrawalService,
	balance *service.BalanceService, users *repository.UserRepository, adminIDs []int64) (*AdminBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "admin_bot")
	log.Info("admin bot authorized", "username", api.Self.UserName)

	return &AdminBot{
		bot:         api,
		admin:       admin,
		withdrawals: withdrawals,
		balance:     balance,
		users:       users,
		adminIDs:    adminIDs,
		stopCh:      make(chan struct{}),
		log:         log,
	}, nil
}

// Start starts listening for commands
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop gracefully stops the bot
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string

	switch msg.Command() {
	case "start", "help":
		response = b.helpMessage()

	case "stats":
		response = b.handleStats(ctx)

	case "user":
		response = b.handleUser(ctx, msg.CommandArguments())

	case "users":
		response = b.handleUsers(ctx, msg.CommandArguments())

	case "top":
		response = b.handleTop(ctx, msg.CommandArguments())

	case "withdrawals":
		response = b.handleWithdrawals(ctx)

	case "approve":
		response = b.handleFinalize(ctx, msg.CommandArguments(), domain.WithdrawalApproved)

	case "reject":
		response = b.handleFinalize(ctx, msg.CommandArguments(), domain.WithdrawalRejected)

	case "credit":
		response = b.handleCredit(ctx, msg.CommandArguments())

	default:
		response = "❌ Unknown command. Use /help for the command list."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

func (b *AdminBot) helpMessage() string {
	return `<b>🤖 Admin commands</b>

<b>📊 Statistics:</b>
/stats - Platform statistics
/top [limit] - Top users by team size
/users [page] - All users

<b>👤 Users:</b>
/user &lt;tg_id&gt; - User details
/credit &lt;tg_id&gt; &lt;currency&gt; &lt;amount&gt; - Credit a balance

<b>💸 Withdrawals:</b>
/withdrawals - Pending withdrawals
/approve &lt;id&gt; [remarks] - Approve a withdrawal
/reject &lt;id&gt; &lt;reason&gt; - Reject and refund`
}

func (b *AdminBot) handleStats(ctx context.Context) string {
	stats, err := b.admin.GetStats(ctx)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}

	return fmt.Sprintf(`<b>📊 Platform statistics</b>

<b>👥 Users:</b>
• Total: %d
• Joined today: %d
• Joined this week: %d
• Mining right now: %d

<b>⛏ Activity:</b>
• Daily check-ins: %d
• Tasks completed: %d

<b>💰 In circulation:</b>
• Coin: %.2f
• USD: %.2f
• Diamond: %.2f
• Star: %.2f

<b>💸 Withdrawals:</b>
• Pending: %d
• Approved USD: %.2f`,
		stats.TotalUsers,
		stats.UsersToday,
		stats.UsersWeek,
		stats.ActiveMiners,
		stats.DailyLogins,
		stats.TasksComplete,
		stats.TotalCoin,
		stats.TotalUSD,
		stats.TotalDiamond,
		stats.TotalStar,
		stats.PendingWithdrawals,
		stats.ApprovedUSD,
	)
}

func (b *AdminBot) handleUser(ctx context.Context, args string) string {
	if args == "" {
		return "❌ Usage: /user <tg_id>"
	}

	tgID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return "❌ Invalid Telegram ID"
	}

	user, err := b.users.GetByTgID(ctx, tgID)
	if err != nil {
		return fmt.Sprintf("❌ User not found: %v", err)
	}

	return fmt.Sprintf(`<b>👤 User details</b>

• ID: %d
• Telegram ID: %d
• Username: @%s
• Name: %s
• 🪙 Coin: %.2f
• 💵 USD: %.2f
• 💎 Diamond: %.2f
• ⭐ Star: %.2f
• ⛏ Speed: %.2f/h
• 👥 Referrals: %d (team %d)
• 📅 Joined: %s`,
		user.ID,
		user.TgID,
		user.Username,
		user.FullName,
		user.Coin,
		user.USD,
		user.Diamond,
		user.Star,
		user.MiningSpeed,
		user.TotalReferrals,
		user.TotalTeamSize,
		user.CreatedAt.Format("02.01.2006 15:04"),
	)
}

func (b *AdminBot) handleUsers(ctx context.Context, args string) string {
	page := 1
	if args != "" {
		if n, err := strconv.Atoi(args); err == nil && n > 0 {
			page = n
		}
	}

	limit := 20
	offset := (page - 1) * limit

	users, err := b.users.List(ctx, limit, offset)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if len(users) == 0 {
		return "❌ No users found"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>👥 Users (page %d)</b>\n\n", page))

	for i, u := range users {
		username := u.Username
		if username == "" {
			username = fmt.Sprintf("id:%d", u.TgID)
		}
		sb.WriteString(fmt.Sprintf("%d. @%s | 🪙%.0f | 💵%.2f | 👥%d\n",
			offset+i+1, username, u.Coin, u.USD, u.TotalTeamSize))
	}

	if len(users) == limit {
		sb.WriteString(fmt.Sprintf("\nUse /users %d for the next page", page+1))
	}

	return sb.String()
}

func (b *AdminBot) handleTop(ctx context.Context, args string) string {
	limit := 10
	if args != "" {
		if n, err := strconv.Atoi(args); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	users, err := b.users.TopByTeamSize(ctx, limit)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if len(users) == 0 {
		return "❌ No users found"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🏆 Top %d by team size</b>\n\n", limit))

	for i, u := range users {
		username := u.Username
		if username == "" {
			username = fmt.Sprintf("id:%d", u.TgID)
		}
		sb.WriteString(fmt.Sprintf("%d. @%s — %d 👥\n", i+1, username, u.TotalTeamSize))
	}

	return sb.String()
}

func (b *AdminBot) handleWithdrawals(ctx context.Context) string {
	list, err := b.withdrawals.Pending(ctx, 20)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}
	if len(list) == 0 {
		return "✅ No pending withdrawals"
	}

	var sb strings.Builder
	sb.WriteString("<b>💸 Pending withdrawals</b>\n\n")

	for _, w := range list {
		sb.WriteString(fmt.Sprintf("🆔 #%d | user %d\n", w.ID, w.UserID))
		sb.WriteString(fmt.Sprintf("💰 Amount: %.2f USD (fee %.2f 💎)\n", w.AmountUSD, w.FeeDiamond))
		sb.WriteString(fmt.Sprintf("💳 Wallet: <code>%s</code>\n", w.WalletAddress))
		sb.WriteString(fmt.Sprintf("📅 %s\n\n", w.CreatedAt.Format("02.01.2006 15:04")))
	}

	sb.WriteString("\n/approve <id> — approve\n/reject <id> <reason> — reject and refund")

	return sb.String()
}

func (b *AdminBot) handleFinalize(ctx context.Context, args string, decision domain.WithdrawalStatus) string {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if parts[0] == "" {
		return fmt.Sprintf("❌ Usage: /%s <id> [remarks]", strings.ToLower(string(decision)))
	}
	if decision == domain.WithdrawalRejected && len(parts) < 2 {
		return "❌ Usage: /reject <id> <reason>"
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "❌ Invalid withdrawal ID"
	}

	remarks := ""
	if len(parts) == 2 {
		remarks = parts[1]
	}

	w, err := b.withdrawals.Finalize(ctx, id, decision, remarks)
	if err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}

	if decision == domain.WithdrawalRejected {
		return fmt.Sprintf("❌ Withdrawal #%d rejected. %.2f USD and %.2f 💎 refunded.", w.ID, w.AmountUSD, w.FeeDiamond)
	}
	return fmt.Sprintf("✅ Withdrawal #%d approved: %.2f USD to <code>%s</code>", w.ID, w.AmountUSD, w.WalletAddress)
}

func (b *AdminBot) handleCredit(ctx context.Context, args string) string {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return "❌ Usage: /credit <tg_id> <currency> <amount>"
	}

	tgID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "❌ Invalid Telegram ID"
	}
	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "❌ Invalid amount"
	}

	user, err := b.users.GetByTgID(ctx, tgID)
	if err != nil {
		return fmt.Sprintf("❌ User not found: %v", err)
	}

	currency := domain.Currency(strings.ToUpper(parts[1]))
	if err := b.balance.Credit(ctx, user.ID, currency, amount, "Admin Adjustment"); err != nil {
		return fmt.Sprintf("❌ Error: %v", err)
	}

	return fmt.Sprintf("✅ Credited %.2f %s to @%s", amount, currency, user.Username)
}

// NotifyAdminsNewWithdrawal notifies all admins about a new withdrawal request
func (b *AdminBot) NotifyAdminsNewWithdrawal(w *domain.Withdrawal) {
	message := fmt.Sprintf(`🔔 <b>New withdrawal request!</b>

👤 User: %d
💰 Amount: %.2f USD (fee %.2f 💎)
💳 Wallet: <code>%s</code>

ID: #%d

/approve %d - approve
/reject %d reason - reject`,
		w.UserID, w.AmountUSD, w.FeeDiamond, w.WalletAddress, w.ID, w.ID, w.ID)

	for _, adminID := range b.adminIDs {
		msg := tgbotapi.NewMessage(adminID, message)
		msg.ParseMode = "HTML"
		if _, err := b.bot.Send(msg); err != nil {
			b.log.Error("failed to notify admin", "admin_id", adminID, "error", err)
		}
	}
}
