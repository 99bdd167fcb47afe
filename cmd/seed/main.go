// Command seed loads the demo accounts, sample tickets, and the knowledge
// base into the database. It is idempotent for users (matched by email) and
// append-only for everything else.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/caseflow/helpdesk/internal/auth"
	"github.com/caseflow/helpdesk/internal/config"
	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/observability"
	"github.com/caseflow/helpdesk/internal/persistence"
	"github.com/caseflow/helpdesk/internal/repository"
)

type seedUser struct {
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

type seedTicket struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	CreatorMail string
}

type seedArticle struct {
	Title    string
	Content  string
	Sector   domain.TicketCategory
	Keywords []string
	Tags     []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	users := repository.NewUserRepository(pool)
	tickets := repository.NewTicketRepository(pool)
	comments := repository.NewCommentRepository(pool)
	articles := repository.NewArticleRepository(pool)

	byEmail := map[string]*domain.User{}
	byRole := map[domain.Role]*domain.User{}
	for _, su := range seedUsers {
		user, err := users.GetByEmail(ctx, su.Email)
		if errors.Is(err, pgx.ErrNoRows) {
			hash, hashErr := auth.HashPassword(su.Password, cfg.Auth.BcryptCost)
			if hashErr != nil {
				logger.Fatal("failed to hash password", zap.Error(hashErr))
			}
			user = &domain.User{Name: su.Name, Email: su.Email, PasswordHash: hash, Role: su.Role}
			if err := users.Create(ctx, user); err != nil {
				logger.Fatal("failed to create user", zap.String("email", su.Email), zap.Error(err))
			}
			logger.Info("created user", zap.String("name", user.Name), zap.String("role", string(user.Role)))
		} else if err != nil {
			logger.Fatal("failed to look up user", zap.String("email", su.Email), zap.Error(err))
		}
		byEmail[su.Email] = user
		byRole[user.Role] = user
	}

	for _, st := range seedTickets {
		creator := byEmail[st.CreatorMail]
		ticket := &domain.Ticket{
			Title:       st.Title,
			Description: st.Description,
			Category:    st.Category,
			Priority:    st.Priority,
			Status:      domain.TicketStatusNew,
			CreatedBy:   creator.ID,
		}
		if err := tickets.Create(ctx, ticket); err != nil {
			logger.Fatal("failed to create ticket", zap.String("title", st.Title), zap.Error(err))
		}

		if st.Status != domain.TicketStatusNew {
			assignee := byRole[domain.Role(st.Category)]
			if assignee == nil {
				assignee = byRole[domain.RoleAdmin]
			}
			ticket.Status = st.Status
			ticket.AssignedTo = &assignee.ID
			if err := tickets.UpdateStatus(ctx, ticket); err != nil {
				logger.Fatal("failed to set ticket status", zap.String("title", st.Title), zap.Error(err))
			}

			comment := &domain.Comment{TicketID: ticket.ID, UserID: assignee.ID, Content: statusComment(st.Status)}
			if err := comments.Create(ctx, comment); err != nil {
				logger.Fatal("failed to create comment", zap.Error(err))
			}
		}
		logger.Info("created ticket", zap.String("title", ticket.Title), zap.String("status", string(ticket.Status)))
	}

	admin := byRole[domain.RoleAdmin]
	for _, sa := range seedArticles {
		article := &domain.KnowledgeArticle{
			Title:     sa.Title,
			Content:   sa.Content,
			Sector:    sa.Sector,
			Keywords:  sa.Keywords,
			Tags:      sa.Tags,
			IsActive:  true,
			CreatedBy: admin.ID,
		}
		if err := articles.Create(ctx, article); err != nil {
			logger.Fatal("failed to create article", zap.String("title", sa.Title), zap.Error(err))
		}
		logger.Info("created article", zap.String("title", article.Title), zap.String("sector", string(article.Sector)))
	}

	logger.Info("database seeded")
}

func statusComment(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusInProgress:
		return "Iniciando análise do problema. Vou investigar as possíveis causas."
	case domain.TicketStatusFinished:
		return "Problema resolvido com sucesso. Testado e funcionando normalmente."
	default:
		return "Retornando para reavaliação. Necessário mais informações do solicitante."
	}
}

var seedUsers = []seedUser{
	{Email: "cleitinho@caseflow.com", Name: "Cleitinho", Role: domain.RoleAdmin, Password: "1234"},
	{Email: "joao_ti@caseflow.com", Name: "João Silva", Role: domain.RoleIT, Password: "1234"},
	{Email: "maria_sac@caseflow.com", Name: "Maria Santos", Role: domain.RoleCustomerService, Password: "1234"},
	{Email: "carlos_fin@caseflow.com", Name: "Carlos Oliveira", Role: domain.RoleFinance, Password: "1234"},
}

var seedTickets = []seedTicket{
	{
		Title:       "Sistema lento na filial Norte",
		Description: "O sistema está apresentando lentidão excessiva na filial Norte, principalmente ao acessar relatórios financeiros. Usuários relatam demora de mais de 5 minutos para carregar páginas.",
		Category:    domain.CategoryIT,
		Status:      domain.TicketStatusNew,
		Priority:    domain.TicketPriorityHigh,
		CreatorMail: "maria_sac@caseflow.com",
	},
	{
		Title:       "Cliente não consegue acessar conta online",
		Description: "Cliente João da Silva (CPF: 123.456.789-00) não consegue fazer login no sistema desde ontem. Já tentou recuperar senha mas não está recebendo o email.",
		Category:    domain.CategoryCustomerService,
		Status:      domain.TicketStatusInProgress,
		Priority:    domain.TicketPriorityMedium,
		CreatorMail: "cleitinho@caseflow.com",
	},
	{
		Title:       "Divergência no fechamento mensal",
		Description: "Foi identificada uma divergência de R$ 2.547,80 no fechamento do mês de outubro. Precisa ser investigado com urgência antes do envio do relatório para a matriz.",
		Category:    domain.CategoryFinance,
		Status:      domain.TicketStatusNew,
		Priority:    domain.TicketPriorityUrgent,
		CreatorMail: "joao_ti@caseflow.com",
	},
	{
		Title:       "Impressora não funciona no setor comercial",
		Description: "A impressora HP LaserJet do setor comercial parou de funcionar. Já verificamos conexões e cartuchos, mas não conseguimos identificar o problema.",
		Category:    domain.CategoryIT,
		Status:      domain.TicketStatusFinished,
		Priority:    domain.TicketPriorityLow,
		CreatorMail: "maria_sac@caseflow.com",
	},
	{
		Title:       "Solicitação de reembolso em análise",
		Description: "Cliente solicita reembolso de compra realizada no valor de R$ 1.299,00. Produto apresentou defeito dentro do prazo de garantia. Protocolo: RB-2024-0891.",
		Category:    domain.CategoryCustomerService,
		Status:      domain.TicketStatusReturned,
		Priority:    domain.TicketPriorityMedium,
		CreatorMail: "carlos_fin@caseflow.com",
	},
	{
		Title:       "Conciliação bancária pendente",
		Description: "Conciliação bancária do Banco XYZ apresenta diferenças que precisam ser analisadas. Total de R$ 15.847,32 em movimentações não identificadas.",
		Category:    domain.CategoryFinance,
		Status:      domain.TicketStatusInProgress,
		Priority:    domain.TicketPriorityHigh,
		CreatorMail: "cleitinho@caseflow.com",
	},
	{
		Title:       "Backup do servidor falhou",
		Description: "O backup automático do servidor principal falhou nas últimas 3 tentativas. Necessário verificar espaço em disco e integridade dos dados.",
		Category:    domain.CategoryIT,
		Status:      domain.TicketStatusNew,
		Priority:    domain.TicketPriorityUrgent,
		CreatorMail: "maria_sac@caseflow.com",
	},
	{
		Title:       "Treinamento para nova funcionalidade",
		Description: "Equipe do SAC solicita treinamento para nova funcionalidade de chat online que será implementada no próximo mês.",
		Category:    domain.CategoryCustomerService,
		Status:      domain.TicketStatusFinished,
		Priority:    domain.TicketPriorityLow,
		CreatorMail: "joao_ti@caseflow.com",
	},
}

var seedArticles = []seedArticle{
	{
		Title: "Como Resetar Senha do Sistema",
		Content: "## Como Resetar sua Senha\n\n1. Acesse a página de login do sistema\n2. Clique em \"Esqueci minha senha\"\n3. Digite seu e-mail corporativo cadastrado\n4. Verifique sua caixa de entrada, o link chega em até 5 minutos\n5. Digite sua nova senha (mínimo 8 caracteres, com letras e números)\n\n" +
			"Se não receber o e-mail em 10 minutos, verifique a pasta de spam ou entre em contato com o suporte de TI.",
		Sector:   domain.CategoryIT,
		Keywords: []string{"resetar", "senha", "password", "esqueci", "login", "acesso", "email"},
		Tags:     []string{"senha", "login", "acesso", "email", "sistema"},
	},
	{
		Title: "Problemas com Monitor - Não Liga ou Sem Imagem",
		Content: "## Solucionando Problemas de Monitor\n\nMonitor não liga: verifique a alimentação, teste outro cabo de força e observe o LED indicador.\n\n" +
			"Monitor liga mas não mostra imagem: confira o cabo HDMI/VGA/DisplayPort, teste outra entrada e reinicie o computador. Resolução recomendada: 1920x1080 para monitores de 21\" a 27\".",
		Sector:   domain.CategoryIT,
		Keywords: []string{"monitor", "tela", "display", "imagem", "liga", "cabo", "hdmi", "vga", "resolucao"},
		Tags:     []string{"monitor", "hardware", "display", "cabo", "conectividade"},
	},
	{
		Title: "Configuração de Mouse e Teclado",
		Content: "## Configuração de Mouse e Teclado\n\nMouse não funciona: conecte em outra porta USB, verifique as pilhas se for wireless e revise o driver em Configurações > Dispositivos > Mouse.\n\n" +
			"Teclado não funciona: verifique a conexão, o Num Lock e o layout de idioma (ABNT2 para português).",
		Sector:   domain.CategoryIT,
		Keywords: []string{"mouse", "teclado", "keyboard", "wireless", "usb", "driver", "configuracao", "atalho"},
		Tags:     []string{"mouse", "teclado", "perifericos", "configuracao", "hardware"},
	},
	{
		Title: "Política de Garantia e Troca de Produtos",
		Content: "## Política de Garantia\n\nPrazos: monitores 12 meses, mouse e teclado 6 meses, cabos e acessórios 3 meses, linha gaming premium 24 meses.\n\n" +
			"A garantia cobre defeitos de fabricação e mau funcionamento sem causa externa. Apresente a nota fiscal para solicitar troca ou reparo.",
		Sector:   domain.CategoryCustomerService,
		Keywords: []string{"garantia", "troca", "defeito", "nota fiscal", "reparo", "reembolso", "prazo"},
		Tags:     []string{"garantia", "troca", "política", "defeito", "devolução"},
	},
	{
		Title: "Como Fazer uma Reclamação ou Sugestão",
		Content: "## Reclamações e Sugestões\n\nRegistre sua reclamação pelos canais oficiais: telefone, e-mail ou chat. Você receberá um número de protocolo para acompanhamento.\n\n" +
			"O prazo de resposta é de até 5 dias úteis.",
		Sector:   domain.CategoryCustomerService,
		Keywords: []string{"reclamacao", "sugestao", "sac", "atendimento", "protocolo", "telefone", "email", "chat"},
		Tags:     []string{"atendimento", "reclamação", "sugestão", "contato", "protocolo"},
	},
	{
		Title: "Política de Entrega e Prazos",
		Content: "## Entrega e Prazos\n\nPrazos variam conforme a região e a transportadora. O código de rastreamento é enviado por e-mail após o despacho.\n\n" +
			"Frete grátis para pedidos acima do valor mínimo vigente. Entrega expressa disponível nas capitais.",
		Sector:   domain.CategoryCustomerService,
		Keywords: []string{"entrega", "frete", "prazo", "rastreamento", "correios", "transportadora", "gratis", "expressa"},
		Tags:     []string{"entrega", "frete", "prazo", "logística", "rastreamento"},
	},
	{
		Title: "Como Solicitar Reembolso",
		Content: "## Solicitação de Reembolso\n\nO reembolso pode ser feito por estorno no cartão, PIX ou transferência bancária, conforme a forma de pagamento original.\n\n" +
			"O prazo de processamento é de até 10 dias úteis após a aprovação da devolução.",
		Sector:   domain.CategoryFinance,
		Keywords: []string{"reembolso", "devolucao", "estorno", "dinheiro", "conta", "cartao", "pix", "transferencia"},
		Tags:     []string{"reembolso", "devolução", "financeiro", "pagamento", "estorno"},
	},
	{
		Title: "Formas de Pagamento e Parcelamento",
		Content: "## Formas de Pagamento\n\nAceitamos cartão de crédito e débito, PIX e boleto bancário. Parcelamento em até 12x no cartão; compras à vista no PIX têm desconto.\n\n" +
			"Parcelas abaixo do valor mínimo podem incidir juros da operadora.",
		Sector:   domain.CategoryFinance,
		Keywords: []string{"pagamento", "cartao", "pix", "boleto", "parcelamento", "juros", "desconto", "debito"},
		Tags:     []string{"pagamento", "cartão", "pix", "boleto", "parcelamento", "financeiro"},
	},
	{
		Title: "Dúvidas sobre Cobrança e Fatura",
		Content: "## Cobrança e Fatura\n\nPara contestar um valor ou cobrança em duplicidade, informe o número do pedido e a data da compra.\n\n" +
			"A análise da contestação leva até 7 dias úteis e o retorno é feito pelo e-mail cadastrado.",
		Sector:   domain.CategoryFinance,
		Keywords: []string{"cobranca", "fatura", "valor", "preco", "contestar", "duplicidade", "desconto", "juros"},
		Tags:     []string{"cobrança", "fatura", "contestação", "valor", "financeiro"},
	},
}
