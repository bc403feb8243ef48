package email

const (
	TemplateSellerPending  = "seller_pending"
	TemplateSellerApproved = "seller_approved"
	TemplateSellerRejected = "seller_rejected"
)

type emailTemplate struct {
	subject string
	text    string
	html    string
}

var catalog = map[string]emailTemplate{
	TemplateSellerPending: {
		subject: "Novo vendedor aguardando aprovação - ArremateAI",
		text: `Olá Administrador,

Um novo vendedor se cadastrou na plataforma e está aguardando aprovação:

Nome: {{.Name}}
{{.Document}}
E-mail: {{.Email}}
Status: {{.Status}}

Acesse o painel admin: {{.FrontendURL}}/admin/vendedores

Por favor, revise os dados e aprove ou rejeite este cadastro.

---
ArremateAI - Plataforma de Leilões
`,
		html: `{{define "content"}}
<p>Olá Administrador,</p>
<p>Um novo vendedor se cadastrou na plataforma e está aguardando aprovação:</p>
<div class="info-box">
    <p><strong>Nome:</strong> {{.Name}}</p>
    {{if .Document}}<p>{{.Document}}</p>{{end}}
    <p><strong>E-mail:</strong> {{.Email}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
</div>
<a class="button" href="{{.FrontendURL}}/admin/vendedores">Abrir painel admin</a>
<p>Por favor, revise os dados e aprove ou rejeite este cadastro.</p>
{{end}}`,
	},
	TemplateSellerApproved: {
		subject: "Sua conta foi aprovada - ArremateAI",
		text: `Olá {{.Name}},

Parabéns! Sua conta de vendedor foi aprovada!

Agora você já pode começar a anunciar seus imóveis em leilão na plataforma ArremateAI.

Próximos passos:
1. Acesse a plataforma: {{.FrontendURL}}
2. Faça login com suas credenciais
3. Clique em "Anunciar" para cadastrar seu primeiro imóvel

Dúvidas ou problemas? Envie um e-mail para suporte@arremateai.com

---
Equipe ArremateAI
`,
		html: `{{define "content"}}
<p>Olá {{.Name}},</p>
<p>Parabéns! Sua conta de vendedor foi <strong>aprovada</strong>.</p>
<p>Agora você já pode começar a anunciar seus imóveis em leilão na plataforma ArremateAI.</p>
<ol>
    <li>Acesse a plataforma</li>
    <li>Faça login com suas credenciais</li>
    <li>Clique em "Anunciar" para cadastrar seu primeiro imóvel</li>
</ol>
<a class="button" href="{{.FrontendURL}}">Acessar o ArremateAI</a>
{{end}}`,
	},
	TemplateSellerRejected: {
		subject: "Sua conta não foi aprovada - ArremateAI",
		text: `Olá {{.Name}},

Informamos que sua solicitação de cadastro como vendedor não foi aprovada.

Motivo:
{{.Reason}}

Se você acredita que houve algum erro ou deseja mais informações,
entre em contato conosco através do e-mail: suporte@arremateai.com

---
Equipe ArremateAI
`,
		html: `{{define "content"}}
<p>Olá {{.Name}},</p>
<p>Informamos que sua solicitação de cadastro como vendedor não foi aprovada.</p>
<div class="info-box">
    <p><strong>Motivo:</strong> {{.Reason}}</p>
</div>
<p>Você pode reenviar seus documentos pelo painel do vendedor. Dúvidas: suporte@arremateai.com</p>
{{end}}`,
	},
}

const baseTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 24px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { background: #ffffff; padding: 24px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 16px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #0f766e; color: white; padding: 12px 28px; text-decoration: none; border-radius: 6px; margin: 16px 0; }
        .info-box { background: #f3f4f6; padding: 16px; border-radius: 6px; margin: 16px 0; }
    </style>
</head>
<body>
    <div class="header"><h1>ArremateAI</h1></div>
    <div class="content">{{template "content" .}}</div>
    <div class="footer">ArremateAI - Plataforma de Leilões</div>
</body>
</html>`
