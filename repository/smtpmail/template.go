package smtpmail

import "html/template"

// welcomeTmpl is the transactional welcome message. It carries the generated
// password in plaintext, which is the product's onboarding flow.
var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #805B40; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
    .credentials { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #805B40; }
    .button { display: inline-block; background: #805B40; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Seja bem-vinda ao seu Guia Definitivo de Skincare!</h1></div>
    <div class="content">
      <p>Ol&aacute; <strong>{{.Name}}</strong>,</p>
      <p>Parab&eacute;ns! Sua conta foi criada com sucesso.</p>
      <div class="credentials">
        <h3>Seus Dados de Acesso:</h3>
        <p><strong>E-mail:</strong> {{.Email}}</p>
        <p><strong>Senha:</strong> {{.Password}}</p>
      </div>
      <a href="https://pellume.com/login" class="button">Fazer Login Agora</a>
      <p>Atenciosamente,<br><strong>Equipe Pellume</strong></p>
    </div>
  </div>
</body>
</html>`))

type welcomeData struct {
	Name     string
	Email    string
	Password string
}
